package mimo

import (
	"context"

	"github.com/aretw0/mimo/pkg/adapters/fs"
)

// WatchValidate revalidates record files under dir as they change, calling
// onReport for each changed file, until ctx is cancelled. The initial state
// of the directory is not reported; run Validate first for a full pass.
func (s *Service) WatchValidate(ctx context.Context, dir string, onReport func(FileReport)) error {
	events := make(chan string, 16)
	watcher := fs.NewWatcher(dir, events, s.opts.logger)
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop(context.Background())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path := <-events:
			onReport(s.ValidateFile(path))
		}
	}
}

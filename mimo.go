package mimo

import (
	"github.com/aretw0/mimo/pkg/core"
	engine "github.com/aretw0/mimo/pkg/mimo"
)

// Version exposes the version of the engine.
const Version = engine.Version

// --- Types ---

// Record is a public alias for the MU record model.
type Record = core.Record

// Pointer is a public alias for the pointer variant type.
type Pointer = core.Pointer

// Locator is a public alias for the locator variant type.
type Locator = core.Locator

// Diagnostic is a public alias for one validation finding.
type Diagnostic = core.Diagnostic

// Service is a public alias for the engine service.
type Service = engine.Service

// Report is a public alias for a validation run report.
type Report = engine.Report

// FileReport is a public alias for a single file's validation outcome.
type FileReport = engine.FileReport

// PackRequest is a public alias for a pack run configuration.
type PackRequest = engine.PackRequest

// --- Configuration ---

// Option defines a functional option for configuring the engine.
type Option = engine.Option

// WithLogger sets the logger for the service.
var WithLogger = engine.WithLogger

// WithStrict escalates the snapshot size cap from warning to error.
var WithStrict = engine.WithStrict

// WithSnapshotSizeCap overrides the decompressed snapshot size threshold.
var WithSnapshotSizeCap = engine.WithSnapshotSizeCap

// WithContractPath loads the v1.1 structural contract from a file.
var WithContractPath = engine.WithContractPath

// WithEnrichment injects a caption capability for non-text assets.
var WithEnrichment = engine.WithEnrichment

// New builds the engine service.
var New = engine.New

package core

import "fmt"

// Diagnostic codes. E_* findings are fatal for the file; W_* are advisory
// and never affect exit status.
const (
	EYAML     = "E_YAML"
	ERequired = "E_REQUIRED"
	EType     = "E_TYPE"
	ESchema   = "E_SCHEMA"
	ESnapshot = "E_SNAPSHOT"
	EPointer  = "E_POINTER"
	ELocator  = "E_LOCATOR"

	WAsset         = "W_ASSET"
	WStruct        = "W_STRUCT"
	WSchema        = "W_SCHEMA"
	WSnapshot      = "W_SNAPSHOT"
	WPointerLegacy = "W_POINTER_LEGACY"
)

// Diagnostic is one validation finding. Errors and warnings share the shape;
// the code prefix tells them apart.
type Diagnostic struct {
	Code string `json:"code"`
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Msg)
}

// Diag builds a Diagnostic with a formatted message.
func Diag(code, path, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Path: path, Msg: fmt.Sprintf(format, args...)}
}

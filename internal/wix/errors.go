// Package wix builds Windows Installer packages from a project's package
// manifest by driving the WiX toolset (candle, light) and signtool.
package wix

import (
	"errors"
	"fmt"
)

// Kind classifies build failures. Each kind maps to a stable process exit
// code so scripts can branch on the failure class.
type Kind int

const (
	// KindGeneric covers usage mistakes and failures outside the taxonomy.
	KindGeneric Kind = iota + 1
	KindIo
	KindMissingMetadata
	KindUnresolvedPlaceholder
	KindSourceNotFound
	KindFileExists
	KindToolNotFound
	KindCompileFailed
	KindLinkFailed
	KindSignFailed
)

// Code returns the process exit code for the kind.
func (k Kind) Code() int { return int(k) }

func (k Kind) String() string {
	switch k {
	case KindIo:
		return "Io"
	case KindMissingMetadata:
		return "MissingMetadata"
	case KindUnresolvedPlaceholder:
		return "UnresolvedPlaceholder"
	case KindSourceNotFound:
		return "SourceNotFound"
	case KindFileExists:
		return "FileExists"
	case KindToolNotFound:
		return "ToolNotFound"
	case KindCompileFailed:
		return "CompileFailed"
	case KindLinkFailed:
		return "LinkFailed"
	case KindSignFailed:
		return "SignFailed"
	default:
		return "Generic"
	}
}

// Error is a classified build error. Stage errors additionally carry the
// originating tool and its captured output.
type Error struct {
	Kind   Kind
	Msg    string
	Tool   string
	Output []byte
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds a classified error with a formatted message.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ioError wraps a filesystem failure.
func ioError(err error, format string, args ...any) *Error {
	return &Error{Kind: KindIo, Msg: fmt.Sprintf(format, args...), Err: err}
}

// ExitCode returns the stable exit code for err: the kind's code for
// classified errors, 1 otherwise. A nil error is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Code()
	}
	return KindGeneric.Code()
}

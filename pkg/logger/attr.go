package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors". All-nil input yields an
// empty Attr, which slog drops.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error", or nothing when err is nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting package under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// CLID records an entity identifier under "clid". Empty identifiers are
// dropped.
func CLID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("clid", id)
}

// OutputFormat records a payload or output format under "format".
func OutputFormat(name string) slog.Attr {
	return slog.String("format", name)
}

// Size records a raster dimension in pixels under "size".
func Size(px int) slog.Attr {
	return slog.Int("size", px)
}

// Path records a filesystem path under "path".
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// Kind records an error classification under "kind".
func Kind(kind string) slog.Attr {
	if kind == "" {
		return slog.Attr{}
	}
	return slog.String("kind", kind)
}

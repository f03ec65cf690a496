package language

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// VersionRequestKind classifies a parsed language_version request.
type VersionRequestKind int

const (
	// VersionRequestDefault means no specific version was requested.
	VersionRequestDefault VersionRequestKind = iota
	// VersionRequestSystem means only a PATH-resident toolchain may be used.
	VersionRequestSystem
	// VersionRequestNamed means the request is the bare language name
	// (equivalent to VersionRequestDefault but spelled out, e.g. "node").
	VersionRequestNamed
	// VersionRequestSemver means a concrete or partial semver (`<M>`,
	// `<M.N>`, `<M.N.P>`, optionally prefixed by `<name>@`) was requested.
	VersionRequestSemver
	// VersionRequestLatest means `<name>@latest` or the bare "latest".
	VersionRequestLatest
	// VersionRequestPath means an absolute path to an executable was given.
	VersionRequestPath
)

// VersionRequest is the parsed form of a hook's language_version string,
// per the grammar shared across every downloading backend: "", "default",
// "system", the bare language name, "<name>@latest", "<M>", "<M.N>",
// "<M.N.P>", "<name>@<M[.N[.P]]>", or an absolute path to an executable.
type VersionRequest struct {
	Raw     string
	Name    string
	Version string
	Kind    VersionRequestKind
}

var semverPattern = regexp.MustCompile(`^\d+(\.\d+(\.\d+)?)?$`)

// ParseVersionRequest parses a hook's language_version against the uniform
// grammar. langName is the backend's own name (e.g. "node", "ruby"), used
// to recognize "<name>@..." forms and a bare repeat of the language name.
// Path requests are only classified as such if the file exists at parse
// time, matching the grammar's "path requests require the file to exist"
// rule; a nonexistent absolute path falls back to VersionRequestDefault.
func ParseVersionRequest(langName, raw string) VersionRequest {
	req := VersionRequest{Raw: raw}

	switch raw {
	case "", VersionDefault:
		req.Kind = VersionRequestDefault
		return req
	case VersionSystem:
		req.Kind = VersionRequestSystem
		return req
	case VersionLatest:
		req.Kind = VersionRequestLatest
		return req
	case langName:
		req.Kind = VersionRequestNamed
		return req
	}

	if name, version, ok := strings.Cut(raw, "@"); ok {
		req.Name = name
		if version == VersionLatest {
			req.Kind = VersionRequestLatest
			return req
		}
		if semverPattern.MatchString(version) {
			req.Version = version
			req.Kind = VersionRequestSemver
			return req
		}
	}

	if semverPattern.MatchString(raw) {
		req.Version = raw
		req.Kind = VersionRequestSemver
		return req
	}

	if filepath.IsAbs(raw) {
		if info, err := os.Stat(raw); err == nil && !info.IsDir() {
			req.Version = raw
			req.Kind = VersionRequestPath
			return req
		}
	}

	req.Kind = VersionRequestDefault
	return req
}

// ResolvedVersionTag returns the string a backend should fold into its
// environment directory name and cache key: the concrete version for
// semver/latest requests, "system" for system requests, or "default"
// otherwise. It never resolves "latest" to a concrete number itself —
// that's the downloader's job — it just gives callers a stable key
// component before the real resolution happens.
func (r VersionRequest) ResolvedVersionTag() string {
	switch r.Kind {
	case VersionRequestSystem:
		return VersionSystem
	case VersionRequestSemver:
		return r.Version
	case VersionRequestLatest:
		return VersionLatest
	case VersionRequestPath:
		return r.Version
	case VersionRequestNamed, VersionRequestDefault:
		return VersionDefault
	default:
		return VersionDefault
	}
}

// EnvKeyDependencies builds the environment cache key described by the
// spec as {language, language_version_request, additional_dependencies
// sorted}: a deterministic, order-independent identity for a hook
// environment so two hooks that differ only in dependency order still
// share one cache entry.
func EnvKeyDependencies(lang, versionRequest string, additionalDeps []string) []string {
	deps := append([]string(nil), additionalDeps...)
	sort.Strings(deps)
	key := make([]string, 0, len(deps)+2)
	key = append(key, lang, versionRequest)
	key = append(key, deps...)
	return key
}

// Package instance resolves which backend connection profile to use.
//
// A Manager loads a multi-instance configuration document from one of
// several sources (explicit file, inline environment document, default
// file locations, or a legacy two-variable fallback), validates it as a
// whole, and resolves a named or default instance together with its
// credential. Configuration failures name every violated field and every
// missing identifier, so remediation is mechanical.
package instance

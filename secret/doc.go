// Package secret provides environment-equivalent credential storage.
//
// It supports:
//   - Named credential slots behind the Source interface (see EnvSource,
//     StaticSource)
//   - Strict ${VAR} expansion of configuration values (see Expand)
//
// Instance configuration never embeds credentials directly: each instance
// names the slot holding its API token, and the token is read through a
// Source at resolution time. Tests substitute a StaticSource for the
// process environment.
package secret

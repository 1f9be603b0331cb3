/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps a single configuration object under its own key. The
object is validated before it is written, so whatever Load returns was valid
at the time it was saved. Configuration is usually provided by the genesis
document, see InitConfig.
*/
package gconf

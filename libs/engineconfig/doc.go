// Package engineconfig loads the engine's own bootstrap configuration: the
// enabled-pack selection and the installed-pack/project-override directory
// paths (§6.2). Template and pack documents themselves stay JSON; this
// configuration is YAML, mirroring the corpus's convention of YAML for
// repo/tool configuration and JSON for exchanged domain documents.
package engineconfig

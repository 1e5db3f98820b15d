// Package config reads the definegen.yaml project file.
package config

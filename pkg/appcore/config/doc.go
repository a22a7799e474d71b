/*
Package config provides the appcore config store: string properties grouped
into sections, with a guarded setter.

# Overview

A Store is populated once, by New or a loader, and afterwards only existing
properties can change:

	cfg := config.New(map[string]map[string]string{
	    "ui": {"theme": "light"},
	})

	cfg.SetProp("ui", "theme", "dark")  // ok
	cfg.SetProp("ui", "font", "mono")   // ErrUnknownKey, no change
	cfg.SetProp("net", "proxy", "none") // ErrUnknownSection, no change

# Typed Access

Section returns a snapshot with typed accessors that parse stored strings
and fall back to a default:

	http := cfg.Section("http")
	timeout := http.Duration("timeout", 30*time.Second)
	retries := http.Int("retries", 0)
	verbose := http.Bool("verbose", false)

# File Loading

Load sections from YAML or JSON files. Scalar values are stored as strings:

	cfg, err := config.FromFile("app.yaml")

# Watching

A Watcher reloads a file on change and applies the values to an existing
Store. Keys that are not already present are ignored, so a reload never
adds properties:

	w := config.NewWatcher("app.yaml", cfg)
	if err := w.Start(ctx); err != nil {
	    return err
	}
	defer w.Stop()

# Thread Safety

Store is safe for concurrent use. Section values are snapshots and are not
affected by later SetProp calls.
*/
package config

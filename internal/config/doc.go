// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for tire's user
// configuration. The configuration is a YAML document located in the user's
// configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/tire.yaml or $HOME/.config/tire.yaml
//   - Windows: %APPDATA%/tire.yaml
//
// TIRE_CFG_FILE overrides the location. This is not the project
// configuration; pyproject.toml handling lives in the document and profile
// packages.
package config

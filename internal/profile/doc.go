// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package profile implements tire profiles. A profile is a partial
// pyproject.toml carrying [tool.*] defaults for the tools tire drives. The
// default profile is embedded in the binary; others are loaded from HTTP(S)
// or S3 URLs, or from local files. A loaded profile is validated against the
// allow-list of known tools and then merged underneath the project's own
// pyproject.toml.
package profile

// Package appidentityassets embeds the default application identity.
package appidentityassets

import _ "embed"

// YAML is the identity compiled into the binary. It mirrors .fulmen/app.yaml.
//
//go:embed app.yaml
var YAML []byte

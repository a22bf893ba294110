// Package schemas embeds the JSON Schemas shipped with the harvester.
package schemas

import _ "embed"

// HarvestConfigName is the file name HarvestConfig is embedded from.
const HarvestConfigName = "harvest_config.schema.json"

// HarvestConfig is the schema for harvest configuration files.
//
//go:embed harvest_config.schema.json
var HarvestConfig string

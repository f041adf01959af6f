// Package api embeds the OpenAPI description of the REST API.
package api

import _ "embed"

// SwaggerPath is where the document is served.
const SwaggerPath = "/swagger/users.swagger.json"

//go:embed swagger/users.swagger.json
var swaggerJSON []byte

// SwaggerJSON returns the OpenAPI 2.0 document for the users API.
func SwaggerJSON() []byte {
	return swaggerJSON
}

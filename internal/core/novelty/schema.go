package novelty

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// oracleResponseSchema is the contract an oracle payload must meet before it is
// trusted. Anything failing it is treated as the oracle being unavailable.
const oracleResponseSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["summary", "score"],
  "properties": {
    "summary": {"type": "string", "minLength": 1},
    "score": {"type": "number"},
    "recommendation": {"type": "string"},
    "matchedItem": {
      "type": ["object", "null"],
      "properties": {
        "id": {"type": "string"},
        "title": {"type": "string"},
        "author": {"type": "string"}
      }
    }
  }
}`

var oracleResponseSchema = jsonschema.MustCompileString("innolink://novelty/oracle-response.json", oracleResponseSchemaJSON)

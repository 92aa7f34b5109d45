package yamltemplate

import "gopkg.in/yaml.v3"

// yamlTemplate is the on-disk shape of a user template:
//
//	id: web-socket
//	name: Web Socket
//	type: socket
//	sections:
//	  Unit:
//	    Description: "{{name}} socket"
//	  Socket:
//	    ListenStream: 8080
//
// sections is kept as a node so section and key order survive decoding.
type yamlTemplate struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Type     string    `yaml:"type"`
	Sections yaml.Node `yaml:"sections"`
}

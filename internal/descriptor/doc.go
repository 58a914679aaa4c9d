// Package descriptor parses image descriptors and expands them into concrete
// configurations.
//
// A descriptor is a flat JSON (or JSONC, or YAML) object whose values are
// either strings or lists of strings:
//
//	{
//	  "gcloud_version": ["226.0.0-slim"],
//	  "node_version": ["8.0.0", "9.11.2"],
//	  "version": "node_version"
//	}
//
// Every list-valued field is a dimension. Expansion yields the Cartesian
// product of all dimensions, with the scalar fields carried through
// unchanged, so the descriptor above denotes two configurations:
//
//	{"gcloud_version": "226.0.0-slim", "node_version": "8.0.0", "version": "node_version"}
//	{"gcloud_version": "226.0.0-slim", "node_version": "9.11.2", "version": "node_version"}
//
// # Ordering
//
// Configurations are produced in nested-loop order. The first declared list
// field varies slowest and the last declared list field varies fastest. Each
// list keeps its own element order.
package descriptor

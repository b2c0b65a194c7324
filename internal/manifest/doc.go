// Package manifest decodes GAM descriptor manifests into raw descriptors.
//
// A manifest declares one or more modules. HCL is the primary format:
//
//	gam "pid" {
//	  description = "Discrete PID filter."
//
//	  inputs {
//	    element_types = [float64]
//	    dimensions    = [[1, 1]]
//	    names         = ["Input"]
//	  }
//
//	  parameters {
//	    element_types  = [float64, float64]
//	    dimensions     = [[1, 1], [1, 1]]
//	    names          = ["Kp", "T"]
//	    default_values = [[1.0], [0.001]]
//	  }
//	}
//
// Element types are written as bare keywords. YAML manifests use a top-level
// "gams" sequence with the same field keys, and element types written as
// plain strings.
//
// Decoding is deliberately shallow: section attributes are passed through
// as-is so the descriptor validator reports layout, type and shape problems
// uniformly regardless of the source format.
package manifest

package core

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeFloat denotes floating-point readouts.
	ParamTypeFloat ParamType = "float"
	// ParamTypeBool denotes on/off readouts.
	ParamTypeBool ParamType = "bool"
)

// Parameter describes a single readout value shown on a panel.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
	Unit  string
}

// ParameterGroup clusters related readouts for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures a full set of readouts at one instant.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// Lookup returns the parameter with the given key.
func (p ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, group := range p.Groups {
		for _, param := range group.Params {
			if param.Key == key {
				return param, true
			}
		}
	}
	return Parameter{}, false
}

package execution

import "github.com/viant/toolbox"

// EnvironmentKey is the trigger context entry holding the environment
// declared for the execution.
const EnvironmentKey = "environment"

// Instance represents an execution as listed by the approval core.
type Instance struct {
	ID             string                 `json:"id"`
	State          State                  `json:"state"`
	TriggerContext map[string]interface{} `json:"trigger_context,omitempty"`
}

// Environment returns the declared environment map, values are left
// unresolved.
func (i *Instance) Environment() map[string]interface{} {
	if i == nil || len(i.TriggerContext) == 0 {
		return nil
	}
	raw, ok := i.TriggerContext[EnvironmentKey]
	if !ok || raw == nil {
		return nil
	}
	switch actual := raw.(type) {
	case map[string]interface{}:
		return actual
	case map[string]string:
		ret := make(map[string]interface{}, len(actual))
		for k, v := range actual {
			ret[k] = v
		}
		return ret
	case map[interface{}]interface{}:
		ret := make(map[string]interface{}, len(actual))
		for k, v := range actual {
			ret[toolbox.AsString(k)] = v
		}
		return ret
	}
	return nil
}

// StateOrUnknown returns the instance state, defaulting to StateUnknown.
func (i *Instance) StateOrUnknown() State {
	if i == nil || i.State == "" {
		return StateUnknown
	}
	return ParseState(string(i.State))
}

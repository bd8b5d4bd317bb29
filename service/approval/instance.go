package approval

import (
	"github.com/viant/hibernator/model/execution"
)

// InstanceView is the wire form of an execution. The state is kept as a raw
// string so unrecognised values degrade to UNKNOWN instead of failing the
// whole poll.
type InstanceView struct {
	ID             string                 `json:"id"`
	State          string                 `json:"state"`
	TriggerContext map[string]interface{} `json:"trigger_context,omitempty"`
}

// Instance converts the view into the model type.
func (v *InstanceView) Instance() *execution.Instance {
	state := execution.StateUnknown
	if v.State != "" {
		state = execution.ParseState(v.State)
	}
	return &execution.Instance{ID: v.ID, State: state, TriggerContext: v.TriggerContext}
}

// NewInstanceView converts an instance into its wire form.
func NewInstanceView(instance *execution.Instance) *InstanceView {
	return &InstanceView{ID: instance.ID, State: string(instance.StateOrUnknown()), TriggerContext: instance.TriggerContext}
}

// ToInstances converts the list payload, skipping entries without an id.
func (l *InstanceList) ToInstances() []*execution.Instance {
	if l == nil {
		return nil
	}
	ret := make([]*execution.Instance, 0, len(l.Instances))
	for _, view := range l.Instances {
		if view == nil || view.ID == "" {
			continue
		}
		ret = append(ret, view.Instance())
	}
	return ret
}

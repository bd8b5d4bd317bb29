package approval_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/approval"
)

func TestInstanceList_ToInstances(t *testing.T) {
	payload := `{"instances":[
		{"id":"e1","state":"WAITING_FOR_HUMAN","trigger_context":{"environment":{"A":"1"}}},
		{"id":"","state":"APPROVED"},
		{"id":"e2","state":"SLEEPING"},
		{"id":"e3"}
	]}`
	list := &approval.InstanceList{}
	require.NoError(t, json.Unmarshal([]byte(payload), list))
	require.Len(t, list.Instances, 4)

	instances := list.ToInstances()
	require.Len(t, instances, 3)
	assert.Equal(t, "e1", instances[0].ID)
	assert.Equal(t, execution.StateWaitingForHuman, instances[0].State)
	assert.NotNil(t, instances[0].TriggerContext["environment"])
	assert.Equal(t, execution.StateUnknown, instances[1].State)
	assert.Equal(t, execution.StateUnknown, instances[2].State)

	var empty *approval.InstanceList
	assert.Nil(t, empty.ToInstances())
}

package criteria

import (
	"strings"

	"github.com/viant/hibernator/service/dao"
)

// FilterByState returns true when state matches the State parameter, or
// when no State parameter was supplied. Comparison is case-insensitive.
func FilterByState(state string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != dao.StateParameter {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			return strings.EqualFold(state, actual)
		case []string:
			for _, s := range actual {
				if strings.EqualFold(state, s) {
					return true
				}
			}
			return false
		}
	}
	return true
}

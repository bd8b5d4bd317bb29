package store

import (
	"github.com/viant/hibernator/service/dao"
	"github.com/viant/hibernator/service/dao/criteria"
)

func matchState(state string, parameters []*dao.Parameter) bool {
	return criteria.FilterByState(state, parameters)
}

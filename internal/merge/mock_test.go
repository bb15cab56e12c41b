package merge

import (
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/footprint-cli/internal/model"
)

// --- Resolver Mock ---

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(conflicts []Conflict, first, second model.Record) (Choice, error) {
	args := m.Called(conflicts, first, second)
	return args.Get(0).(Choice), args.Error(1)
}

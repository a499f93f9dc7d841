package effect

import (
	"context"
	"net/http"

	"github.com/odvcencio/virtualviews/pkg/bus"
	"github.com/odvcencio/virtualviews/pkg/logging"
	"github.com/odvcencio/virtualviews/pkg/native"
	"golang.org/x/time/rate"
)

//go:generate mockgen -package=effect -destination=mock_store_test.go github.com/odvcencio/virtualviews/pkg/effect Store
//go:generate mockgen -package=effect -destination=mock_dialogs_test.go github.com/odvcencio/virtualviews/pkg/native Dialogs

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Store is the persistence collaborator. *store.Store satisfies it.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Rename(ctx context.Context, key, newKey string) error
	// Watch calls fn after every write to key until stop is called.
	Watch(key string, fn func()) (stop func())
}

// Env carries the collaborators commands and subscriptions act on. Nil
// collaborators make their commands resolve as absent.
type Env struct {
	Dialogs native.Dialogs
	HTTP    Doer
	Clock   native.Clock
	Store   Store
	Bus     bus.MessageBus

	// Limiter throttles outbound requests. Nil means unlimited.
	Limiter   *rate.Limiter
	UserAgent string
	Logger    *logging.Logger

	// Context bounds in-flight requests and store calls.
	Context context.Context
}

func (e Env) context() context.Context {
	if e.Context == nil {
		return context.Background()
	}
	return e.Context
}

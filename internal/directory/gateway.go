package directory

import (
	"context"

	"github.com/aura-directory/console/internal/models"
)

// Gateway is the narrow contract the state layer needs from the remote user
// store. List and GetByID hand back raw bodies because the response shape is
// interpreted by the normalizer, not the transport.
type Gateway interface {
	List(ctx context.Context, params map[string]string) ([]byte, error)
	GetByID(ctx context.Context, id string) ([]byte, error)
	Create(ctx context.Context, draft models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, id string) error
}

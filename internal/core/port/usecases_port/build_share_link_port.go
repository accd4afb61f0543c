package usecases_port

import "context"

// BuildShareLinkUseCase — ссылка вида /liked?ids=..., по которой другой
// человек увидит тот же список избранного.
type BuildShareLinkUseCase interface {
	Execute(ctx context.Context, clientID string) (string, error)
}

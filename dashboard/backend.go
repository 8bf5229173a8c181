package dashboard

import (
	"context"

	"rentvision/models"
)

// Backend is the statistics collaborator the dashboard queries. It is
// satisfied in-process by services.StatsService and over the wire by
// client.HTTP.
type Backend interface {
	Options(ctx context.Context) (*models.DataOptions, error)
	Search(ctx context.Context, sel models.Selection) (*models.SearchResult, error)
}

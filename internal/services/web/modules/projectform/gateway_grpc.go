package projectform

import "github.com/civicspace/agora/internal/services/web/backend"

// NewGRPCGateway builds the production project form gateway over the
// backend client.
func NewGRPCGateway(client *backend.Client) Gateway {
	if client == nil {
		return unavailableGateway{}
	}
	return client
}

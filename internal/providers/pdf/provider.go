// Package pdf renders invoice documents.
package pdf

import (
	"context"

	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	orgdomain "github.com/fakturo/fakturo/internal/organization/domain"
)

type Provider interface {
	RenderInvoice(ctx context.Context, org *orgdomain.Organization, invoice *invoicedomain.Invoice) ([]byte, error)
}

package domain

import "time"

type State string

const (
	StateCreated   State = "created"
	StatePurchased State = "purchased"
	StateClaimed   State = "claimed"
	StateRevoked   State = "revoked"
)

type Metadata struct {
	Name           string   `json:"name" yaml:"name"`
	ManufacturedAt string   `json:"manufacturedAt" yaml:"manufactured_at"`
	Serial         string   `json:"serial" yaml:"serial"`
	Certificates   []string `json:"certificates" yaml:"certificates"`
	Image          string   `json:"image" yaml:"image"`
	Version        int      `json:"version" yaml:"version"`
}

// Product is a registered, individually serialized product instance.
type Product struct {
	TokenID      int64     `json:"tokenId" yaml:"token_id"`
	BrandSlug    string    `json:"brandSlug,omitempty" yaml:"brand_slug"`
	Meta         Metadata  `json:"meta" yaml:"meta"`
	IPFSHash     string    `json:"ipfsHash,omitempty" yaml:"ipfs_hash"`
	SerialHash   string    `json:"serialHash,omitempty" yaml:"-"`
	State        State     `json:"state" yaml:"state"`
	CreatedAt    time.Time `json:"createdAt" yaml:"-"`
	PublicURL    string    `json:"publicUrl,omitempty" yaml:"public_url"`
	Owner        string    `json:"owner,omitempty" yaml:"owner"`
	Seller       string    `json:"seller,omitempty" yaml:"seller"`
	EditionNo    int       `json:"editionNo,omitempty" yaml:"edition_no"`
	EditionTotal int       `json:"editionTotal,omitempty" yaml:"edition_total"`
	SKU          string    `json:"sku,omitempty" yaml:"sku"`
	BatchID      string    `json:"batchId,omitempty" yaml:"batch_id"`
}

// View is what a verification lookup reveals to a given requester.
type View struct {
	State        State    `json:"state"`
	TokenID      int64    `json:"tokenId"`
	BrandSlug    string   `json:"brandSlug"`
	Metadata     Metadata `json:"metadata"`
	PublicURL    string   `json:"publicUrl"`
	EditionNo    int      `json:"editionNo"`
	EditionTotal int      `json:"editionTotal"`
	Scope        string   `json:"scope"`
	CanAcquire   bool     `json:"canAcquire"`
	SKU          string   `json:"sku"`
	BatchID      string   `json:"batchId"`
}

const (
	ScopePublic = "public"
	ScopeFull   = "full"
)

type RegisterRequest struct {
	Name           string   `json:"name"`
	SKU            string   `json:"sku,omitempty"`
	ManufacturedAt string   `json:"manufacturedAt,omitempty"`
	Image          string   `json:"image,omitempty"`
	EditionCount   int      `json:"editionCount,omitempty"`
	Certificates   []string `json:"certificates,omitempty"`
	BatchID        string   `json:"batchId,omitempty"`
}

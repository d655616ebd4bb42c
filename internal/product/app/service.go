package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/dwikikusuma/marki-secure/internal/product/domain"
	"github.com/dwikikusuma/marki-secure/pkg/identity"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("product not found")
	ErrUnauthenticated = errors.New("missing user")
	ErrAlreadyOwned    = errors.New("already owned by you")
	ErrNotAvailable    = errors.New("product is not available")
	ErrForbidden       = errors.New("forbidden")
	ErrNoBrand         = errors.New("no brand for this account")
	ErrBrandNotFound   = errors.New("manufacturer not found")
	ErrBrandExists     = errors.New("brand name already taken")
)

const maxEditions = 500

type Service struct {
	repo   ProductRepo
	brands ManufacturerRepo
	admins map[string]struct{}

	publicBase string
	now        func() time.Time
}

func NewService(repo ProductRepo, brands ManufacturerRepo, admins []string, publicBase string) *Service {
	set := make(map[string]struct{}, len(admins))
	for _, a := range admins {
		if a = identity.Normalize(a); a != "" {
			set[a] = struct{}{}
		}
	}
	return &Service{
		repo:       repo,
		brands:     brands,
		admins:     set,
		publicBase: strings.TrimRight(publicBase, "/"),
		now:        time.Now,
	}
}

func (s *Service) IsAdmin(user string) bool {
	_, ok := s.admins[identity.Normalize(user)]
	return ok
}

// Purchase transfers ownership of product id to buyer.
func (s *Service) Purchase(ctx context.Context, id int64, buyer string) (domain.Product, error) {
	buyer = identity.Normalize(buyer)
	if buyer == "" {
		return domain.Product{}, ErrUnauthenticated
	}
	if id <= 0 {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.TransferOwner(ctx, id, buyer)
}

// Verify reports product id as requester may see it. The serial is only
// shown to the owner and to admins.
func (s *Service) Verify(ctx context.Context, id int64, requester string) (domain.View, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.View{}, err
	}

	requester = identity.Normalize(requester)
	isOwner := requester != "" && strings.EqualFold(requester, p.Owner)
	privileged := isOwner || (requester != "" && s.IsAdmin(requester))

	meta := p.Meta
	scope := domain.ScopeFull
	if !privileged {
		meta.Serial = ""
		scope = domain.ScopePublic
	}

	return domain.View{
		State:        p.State,
		TokenID:      p.TokenID,
		BrandSlug:    p.BrandSlug,
		Metadata:     meta,
		PublicURL:    p.PublicURL,
		EditionNo:    p.EditionNo,
		EditionTotal: p.EditionTotal,
		Scope:        scope,
		CanAcquire:   requester != "" && !isOwner && p.State != domain.StateRevoked,
		SKU:          p.SKU,
		BatchID:      p.BatchID,
	}, nil
}

func (s *Service) ListMine(ctx context.Context, owner string) ([]domain.Product, error) {
	owner = identity.Normalize(owner)
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListByOwner(ctx, owner)
}

// Register creates EditionCount products (at least one) owned and sold by seller.
func (s *Service) Register(ctx context.Context, seller string, req domain.RegisterRequest) ([]domain.Product, error) {
	seller = identity.Normalize(seller)
	if seller == "" {
		return nil, ErrUnauthenticated
	}
	return s.register(ctx, seller, "", req)
}

// CreateForCompany registers products under the seller's first brand.
func (s *Service) CreateForCompany(ctx context.Context, seller string, req domain.RegisterRequest) ([]domain.Product, error) {
	seller = identity.Normalize(seller)
	if seller == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}

	brands, err := s.brands.ListManufacturersByOwner(ctx, seller)
	if err != nil {
		return nil, err
	}
	if len(brands) == 0 {
		return nil, ErrNoBrand
	}
	return s.register(ctx, seller, brands[0].Slug, req)
}

func (s *Service) register(ctx context.Context, seller, brand string, req domain.RegisterRequest) ([]domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	total := req.EditionCount
	if total <= 0 {
		total = 1
	}
	if total > maxEditions {
		return nil, fmt.Errorf("%w: at most %d editions", ErrInvalidInput, maxEditions)
	}

	now := s.now()
	manAt := strings.TrimSpace(req.ManufacturedAt)
	if manAt == "" {
		manAt = now.Format("2006-01-02")
	}

	created := make([]domain.Product, 0, total)
	for i := 1; i <= total; i++ {
		serial := genSerial(name, now.Year(), i, total)
		meta := domain.Metadata{
			Name:           name,
			ManufacturedAt: manAt,
			Serial:         serial,
			Certificates:   append([]string{}, req.Certificates...),
			Image:          strings.TrimSpace(req.Image),
			Version:        1,
		}
		p := domain.Product{
			BrandSlug:    brand,
			Meta:         meta,
			IPFSHash:     MetadataHash(meta),
			SerialHash:   SerialHash(serial),
			State:        domain.StateCreated,
			CreatedAt:    now,
			Owner:        seller,
			Seller:       seller,
			EditionNo:    i,
			EditionTotal: total,
			SKU:          strings.ToUpper(strings.TrimSpace(req.SKU)),
			BatchID:      strings.TrimSpace(req.BatchID),
		}

		saved, err := s.repo.Create(ctx, p)
		if err != nil {
			return created, err
		}
		if saved.PublicURL == "" {
			saved.PublicURL = s.publicURL(saved.TokenID)
			if saved, err = s.repo.Create(ctx, saved); err != nil {
				return created, err
			}
		}
		created = append(created, saved)
	}
	return created, nil
}

func (s *Service) publicURL(id int64) string {
	return fmt.Sprintf("%s/details.html?id=%d", s.publicBase, id)
}

// MetadataHash is the content address stored as ipfsHash: the first 46 hex
// characters of sha256 over the JSON metadata.
func MetadataHash(meta domain.Metadata) string {
	raw, _ := json.Marshal(meta)
	return SerialHash(string(raw))[:46]
}

func SerialHash(serial string) string {
	h := sha256.Sum256([]byte(serial))
	return hex.EncodeToString(h[:])
}

func genSerial(name string, year, editionNo, editionTotal int) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	base := Slugify(name)
	if editionTotal > 1 {
		return fmt.Sprintf("%s-%d-%d/%d-%s", base, year, editionNo, editionTotal, short)
	}
	return fmt.Sprintf("%s-%d-%s", base, year, short)
}

// Slugify upper-cases s and collapses every run of other characters into one dash.
func Slugify(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsUpper(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "ITEM"
	}
	return out
}

package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name         string
	Description  string
	Image        string
	Brand        string
	Category     string
	PriceCents   int64
	CountInStock int
}

// Apply inserts the demo catalog and an admin account for manual
// testing. Re-running it is safe: existing rows are left alone.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureAdmin(ctx, pool); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	products := []productSeed{
		{
			Name:         "Glacier Dominator M416 Skin",
			Description:  "Freeze your enemies in their tracks with the legendary Glacier Dominator skin. Features dynamic ice particle effects.",
			Image:        "https://placehold.co/600x400/2d3748/5178c1?text=Glacier+M416",
			Brand:        "Generic",
			Category:     "Weapon Skins",
			PriceCents:   1599,
			CountInStock: 25,
		},
		{
			Name:         "Crystalborn Emperor Set",
			Description:  "The ultimate mythic outfit from the A16 Royale Pass. Ascend to royalty and dominate the battleground.",
			Image:        "https://placehold.co/600x400/2d3748/FACC15?text=Emperor+Set",
			Brand:        "Generic",
			Category:     "Outfits",
			PriceCents:   1999,
			CountInStock: 10,
		},
		{
			Name:         "Esports Pro Gaming Headset",
			Description:  "Hear every footstep. Crystal-clear comms and 7.1 surround sound, designed for pro-level competition.",
			Image:        "https://placehold.co/600x400/2d3748/FFFFFF?text=Pro+Headset",
			Brand:        "HyperSound",
			Category:     "Gear",
			PriceCents:   11999,
			CountInStock: 8,
		},
		{
			Name:         "Glacier UAZ Vehicle Skin",
			Description:  "Ride in style with the matching Glacier UAZ skin. Perfect for making a grand entrance.",
			Image:        "https://placehold.co/600x400/2d3748/5178c1?text=Glacier+UAZ",
			Brand:        "Generic",
			Category:     "Vehicle Skins",
			PriceCents:   799,
			CountInStock: 40,
		},
		{
			Name:         "10,000 UC Pack",
			Description:  "Stock up on Unknown Cash (UC) to be ready for the next exclusive crate or Royale Pass.",
			Image:        "https://placehold.co/600x400/2d3748/FACC15?text=10K+UC",
			Brand:        "Generic",
			Category:     "Currency",
			PriceCents:   7999,
			CountInStock: 100,
		},
		{
			Name:         "Phantom Strike Groza Skin",
			Description:  "A sleek, futuristic Groza skin that strikes fear into your opponents. Purple particle effects on hit.",
			Image:        "https://placehold.co/600x400/2d3748/9333EA?text=Phantom+Groza",
			Brand:        "Generic",
			Category:     "Weapon Skins",
			PriceCents:   1199,
			CountInStock: 15,
		},
	}

	for _, p := range products {
		if err := insertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
INSERT INTO users (name, email, password_hash, is_admin)
VALUES ('Admin', $1, $2, true)
ON CONFLICT (email) DO NOTHING
`, email, string(hash))
	return err
}

func insertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	_, err := pool.Exec(ctx, `
INSERT INTO products (name, description, image, brand, category, price_cents, count_in_stock)
SELECT $1, $2, $3, $4, $5, $6, $7
WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
`, p.Name, p.Description, p.Image, p.Brand, p.Category, p.PriceCents, p.CountInStock)
	return err
}

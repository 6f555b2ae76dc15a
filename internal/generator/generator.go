package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mkline/userreg/internal/service"
)

// Dataset contains the generated registration inputs.
type Dataset struct {
	Users []service.RegistrationInput `json:"users"`
}

// Generator produces synthetic registration payloads. A configurable share of
// entries reuses an earlier email so that seeding exercises the duplicate
// rejection path.
type Generator struct {
	cfg    Config
	rand   *rand.Rand
	emails []string
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumUsers <= 0 {
		cfg.NumUsers = DefaultConfig().NumUsers
	}
	if cfg.DuplicateEmailChance < 0 {
		cfg.DuplicateEmailChance = 0
	}
	if cfg.DuplicateEmailChance > 1 {
		cfg.DuplicateEmailChance = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesises registration inputs. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	users := make([]service.RegistrationInput, g.cfg.NumUsers)
	now := time.Now().UTC()

	for i := 0; i < g.cfg.NumUsers; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		userID := fmt.Sprintf("USR-%06d", i+1)
		first := firstNames[g.rand.Intn(len(firstNames))]
		last := lastNames[g.rand.Intn(len(lastNames))]

		email := g.maybeDuplicateEmail(func() string {
			return fmt.Sprintf("%s.%s.%d@%s",
				strings.ToLower(first), strings.ToLower(last), g.rand.Intn(10000),
				emailDomains[g.rand.Intn(len(emailDomains))])
		})

		createdAt := now.Add(-time.Duration(g.rand.Intn(365*24)) * time.Hour)

		users[i] = service.RegistrationInput{
			ID:        userID,
			FullName:  first + " " + last,
			Email:     email,
			Phone:     g.randomPhone(),
			CreatedAt: &createdAt,
		}
	}

	return Dataset{Users: users}, nil
}

func (g *Generator) maybeDuplicateEmail(fresh func() string) string {
	if len(g.emails) > 0 && g.rand.Float64() < g.cfg.DuplicateEmailChance {
		return g.emails[g.rand.Intn(len(g.emails))]
	}
	email := fresh()
	g.emails = append(g.emails, email)
	return email
}

func (g *Generator) randomPhone() string {
	return fmt.Sprintf("+1%03d%03d%04d",
		200+g.rand.Intn(800), g.rand.Intn(1000), g.rand.Intn(10000))
}

var firstNames = []string{
	"Jane", "John", "Maria", "Ahmed", "Wei", "Priya", "Lucas", "Sofia",
	"Elena", "Noah", "Amara", "Diego", "Yuki", "Omar", "Ingrid", "Tomas",
}

var lastNames = []string{
	"Doe", "Smith", "Garcia", "Khan", "Chen", "Patel", "Silva", "Rossi",
	"Ivanova", "Brown", "Okafor", "Martinez", "Tanaka", "Hassan", "Larsen", "Novak",
}

var emailDomains = []string{
	"example.com", "mail.test", "inbox.dev", "post.example",
}

// seed crea los usuarios por defecto y, opcionalmente, importa un catálogo de propiedades desde CSV.
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// Usa la misma configuración que la API (DB_DRIVER, DATABASE_URL, SQLITE_PATH, ...).
// Es idempotente: usuarios existentes y números de propiedad repetidos se omiten.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Propiedades-api/internal/application/auth"
	"github.com/jhoicas/Propiedades-api/internal/application/lifecycle"
	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/domain/repository"
	"github.com/jhoicas/Propiedades-api/internal/infrastructure/storage"
	"github.com/jhoicas/Propiedades-api/pkg/config"
	"github.com/jhoicas/Propiedades-api/pkg/logger"
)

type seedUser struct {
	username, password, name, department string
	role                                 entity.Role
}

var defaultUsers = []seedUser{
	{"admin", "admin123", "Administrator", "Property Office", entity.RoleApprover},
	{"user", "user123", "Sidrak H.", "ADRD", entity.RoleRequester},
	{"store", "store123", "Store Manager", "Store Department", entity.RoleIssuer},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	st, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer st.Close()

	admin, err := seedUsers(ctx, st.Users, log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuarios")
	}

	if len(os.Args) < 2 {
		return
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()
	items, err := parseCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	coord := lifecycle.NewCoordinator(lifecycle.Deps{
		Tx:         st.Tx,
		Properties: st.Properties,
		Requests:   st.Requests,
		Issuances:  st.Issuances,
		Users:      st.Users,
		Log:        log,
	})
	actor := entity.Actor{ID: admin.ID, Role: admin.Role}
	var created, skipped int
	for _, in := range items {
		_, err := coord.CreateProperty(ctx, actor, in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			log.Fatal().Err(err).Str("number", in.Number).Msg("importar propiedad")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo importado")
}

// seedUsers crea los usuarios que falten y devuelve el aprobador por defecto.
func seedUsers(ctx context.Context, users repository.UserRepository, log *logger.Logger) (*entity.User, error) {
	var admin *entity.User
	for _, su := range defaultUsers {
		u, err := users.GetByUsername(ctx, su.username)
		if err != nil {
			return nil, err
		}
		if u == nil {
			hash, err := auth.HashPassword(su.password)
			if err != nil {
				return nil, err
			}
			now := time.Now().UTC()
			u = &entity.User{
				ID:           uuid.New().String(),
				Username:     su.username,
				PasswordHash: hash,
				Name:         su.name,
				Department:   su.department,
				Role:         su.role,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := users.Create(ctx, u); err != nil {
				return nil, err
			}
			log.Info().Str("username", u.Username).Str("role", string(u.Role)).Msg("usuario creado")
		}
		if u.Role == entity.RoleApprover && admin == nil {
			admin = u
		}
	}
	return admin, nil
}

// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

//go:build integration

package postgres_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/unbservices/uuiduser/internal/identity"
	identitypg "github.com/unbservices/uuiduser/internal/identity/postgres"
	"github.com/unbservices/uuiduser/internal/store"
)

// setupPostgresContainer starts a PostgreSQL container, connects a pool
// and applies the schema.
func setupPostgresContainer() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("uuiduser_test"),
		tcpostgres.WithUsername("uuiduser"),
		tcpostgres.WithPassword("uuiduser"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	pool, err := store.Connect(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup, nil
}

var _ = Describe("UserRepository", func() {
	var (
		pool    *pgxpool.Pool
		cleanup func()
		repo    *identitypg.UserRepository
	)

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())
		repo = identitypg.NewUserRepository(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	newUser := func(username string) *identity.User {
		user := identity.NewUser()
		if username != "" {
			Expect(user.SetUsername(username)).To(Succeed())
		}
		user.PasswordHash = "$argon2id$stub"
		return user
	}

	Describe("Create and GetByUsername", func() {
		It("round-trips an identity with case-insensitive lookup", func() {
			ctx := context.Background()
			user := newUser("Nick")

			Expect(repo.Create(ctx, user)).To(Succeed())

			got, err := repo.GetByUsername(ctx, "NICK")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UUID).To(Equal(user.UUID))
			Expect(got.Username).To(Equal("nick"))
		})

		It("rejects a username differing only in case", func() {
			ctx := context.Background()
			Expect(repo.Create(ctx, newUser("nick"))).To(Succeed())

			dup := identity.NewUser()
			dup.Username = "NICK" // bypass SetUsername normalization on purpose
			dup.PasswordHash = "$argon2id$stub"
			err := repo.Create(ctx, dup)
			Expect(err).To(MatchError(identity.ErrDuplicateKey))
		})

		It("allows multiple identities without usernames", func() {
			ctx := context.Background()
			Expect(repo.Create(ctx, newUser(""))).To(Succeed())
			Expect(repo.Create(ctx, newUser(""))).To(Succeed())
		})

		It("reports unknown usernames as not found", func() {
			_, err := repo.GetByUsername(context.Background(), "ghost")
			Expect(err).To(MatchError(identity.ErrNotFound))
		})
	})

	Describe("Filter", func() {
		It("applies flag filters and ordering", func() {
			ctx := context.Background()
			staff := newUser("alice")
			staff.IsStaff = true
			Expect(repo.Create(ctx, staff)).To(Succeed())
			Expect(repo.Create(ctx, newUser("bob"))).To(Succeed())

			isStaff := true
			got, err := repo.Filter(ctx, identity.UserFilter{Staff: &isStaff})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].Username).To(Equal("alice"))
		})
	})

	Describe("Update", func() {
		It("persists field changes and last login", func() {
			ctx := context.Background()
			user := newUser("nick")
			Expect(repo.Create(ctx, user)).To(Succeed())

			user.Name = "Nick Zadrozny"
			Expect(repo.Update(ctx, user)).To(Succeed())

			at := time.Now().UTC().Truncate(time.Millisecond)
			Expect(repo.UpdateLastLogin(ctx, user.UUID, at)).To(Succeed())

			got, err := repo.GetByUUID(ctx, user.UUID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Nick Zadrozny"))
			Expect(got.LastLogin).NotTo(BeNil())
			Expect(got.LastLogin.UTC()).To(BeTemporally("~", at, time.Second))
		})
	})

	Describe("Delete", func() {
		It("removes the identity", func() {
			ctx := context.Background()
			user := newUser("nick")
			Expect(repo.Create(ctx, user)).To(Succeed())
			Expect(repo.Delete(ctx, user.UUID)).To(Succeed())

			_, err := repo.GetByUUID(ctx, user.UUID)
			Expect(err).To(MatchError(identity.ErrNotFound))
		})
	})
})

var _ = Describe("PasswordResetRepository", func() {
	var (
		pool    *pgxpool.Pool
		cleanup func()
		users   *identitypg.UserRepository
		resets  *identitypg.PasswordResetRepository
	)

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())
		users = identitypg.NewUserRepository(pool)
		resets = identitypg.NewPasswordResetRepository(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	createUser := func(ctx context.Context) *identity.User {
		user := identity.NewUser()
		user.PasswordHash = "$argon2id$stub"
		Expect(users.Create(ctx, user)).To(Succeed())
		return user
	}

	It("round-trips a reset request by user and by token hash", func() {
		ctx := context.Background()
		user := createUser(ctx)

		token, hash, err := identity.GenerateResetToken()
		Expect(err).NotTo(HaveOccurred())
		reset, err := identity.NewPasswordReset(user.UUID, hash, time.Now().Add(time.Hour))
		Expect(err).NotTo(HaveOccurred())

		Expect(resets.Create(ctx, reset)).To(Succeed())

		byUser, err := resets.GetByUser(ctx, user.UUID)
		Expect(err).NotTo(HaveOccurred())
		Expect(identity.VerifyResetToken(token, byUser.TokenHash)).To(BeTrue())

		byHash, err := resets.GetByTokenHash(ctx, hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(byHash.UserUUID).To(Equal(user.UUID))
	})

	It("deletes all requests for a user", func() {
		ctx := context.Background()
		user := createUser(ctx)

		for range 2 {
			_, hash, err := identity.GenerateResetToken()
			Expect(err).NotTo(HaveOccurred())
			reset, err := identity.NewPasswordReset(user.UUID, hash, time.Now().Add(time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(resets.Create(ctx, reset)).To(Succeed())
		}

		Expect(resets.DeleteByUser(ctx, user.UUID)).To(Succeed())
		_, err := resets.GetByUser(ctx, user.UUID)
		Expect(err).To(MatchError(identity.ErrNotFound))
	})

	It("sweeps expired requests", func() {
		ctx := context.Background()
		user := createUser(ctx)

		_, hash, err := identity.GenerateResetToken()
		Expect(err).NotTo(HaveOccurred())
		expired := &identity.PasswordReset{
			ID:        ulid.Make(),
			UserUUID:  user.UUID,
			TokenHash: hash,
			ExpiresAt: time.Now().Add(-time.Minute),
			CreatedAt: time.Now().Add(-2 * time.Hour),
		}
		Expect(resets.Create(ctx, expired)).To(Succeed())

		n, err := resets.DeleteExpired(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeEquivalentTo(1))
	})
})

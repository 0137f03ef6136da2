package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/eschool/eschool-api/internal/core/domain"
)

func userDoc(id primitive.ObjectID, email, role string, enrolled ...primitive.ObjectID) bson.D {
	if enrolled == nil {
		enrolled = []primitive.ObjectID{}
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Ada"},
		{Key: "email", Value: email},
		{Key: "passwordHash", Value: "$2a$10$hash"},
		{Key: "role", Value: role},
		{Key: "enrolledCourses", Value: enrolled},
		{Key: "createdAt", Value: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Key: "updatedAt", Value: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
}

func TestUserRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewUserRepository(mt.DB)

		got, err := repo.Create(context.Background(), &domain.User{
			Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Role: domain.RoleStudent,
		})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(got.ID); err != nil {
			mt.Errorf("expected hex object id, got %q", got.ID)
		}
		if got.Email != "ada@example.com" || got.Role != domain.RoleStudent {
			mt.Errorf("unexpected user: %+v", got)
		}
		if got.EnrolledCourses == nil || len(got.EnrolledCourses) != 0 {
			mt.Errorf("expected empty enrolled set, got %v", got.EnrolledCourses)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error collection: users index: email_1",
		}))
		repo := NewUserRepository(mt.DB)

		_, err := repo.Create(context.Background(), &domain.User{Email: "ada@example.com"})
		if !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
		if !errors.Is(err, domain.ErrConflict) {
			mt.Errorf("expected conflict kind, got %v", err)
		}
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		course := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "eschool.users", mtest.FirstBatch,
			userDoc(id, "ada@example.com", domain.RoleStudent, course)))
		repo := NewUserRepository(mt.DB)

		got, err := repo.FindByEmail(context.Background(), "ada@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got.ID != id.Hex() {
			mt.Errorf("expected id %s, got %s", id.Hex(), got.ID)
		}
		if got.PasswordHash != "$2a$10$hash" {
			mt.Errorf("expected stored hash, got %q", got.PasswordHash)
		}
		if len(got.EnrolledCourses) != 1 || got.EnrolledCourses[0] != course.Hex() {
			mt.Errorf("expected enrolled [%s], got %v", course.Hex(), got.EnrolledCourses)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "eschool.users", mtest.FirstBatch))
		repo := NewUserRepository(mt.DB)

		_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_FindByID_MalformedID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no round trip", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		_, err := repo.FindByID(context.Background(), "not-an-object-id")
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_FindByIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns matches", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "eschool.users", mtest.FirstBatch,
			userDoc(a, "a@example.com", domain.RoleInstructor),
			userDoc(b, "b@example.com", domain.RoleAdmin),
		))
		repo := NewUserRepository(mt.DB)

		got, err := repo.FindByIDs(context.Background(), []string{a.Hex(), b.Hex(), "junk"})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			mt.Fatalf("expected 2 users, got %d", len(got))
		}
	})

	mt.Run("only malformed ids", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		got, err := repo.FindByIDs(context.Background(), []string{"junk"})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			mt.Errorf("expected empty slice, got %v", got)
		}
	})
}

func TestUserRepository_AddEnrollment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	user := primitive.NewObjectID().Hex()
	course := primitive.NewObjectID().Hex()

	mt.Run("appended", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: int32(1)},
			bson.E{Key: "nModified", Value: int32(1)},
		))
		repo := NewUserRepository(mt.DB)

		if err := repo.AddEnrollment(context.Background(), user, course); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("already enrolled", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}, bson.E{Key: "nModified", Value: int32(0)}),
			mtest.CreateCursorResponse(0, "eschool.users", mtest.FirstBatch, bson.D{{Key: "n", Value: int64(1)}}),
		)
		repo := NewUserRepository(mt.DB)

		err := repo.AddEnrollment(context.Background(), user, course)
		if !errors.Is(err, domain.ErrAlreadyEnrolled) {
			mt.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
		}
	})

	mt.Run("user missing", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}, bson.E{Key: "nModified", Value: int32(0)}),
			mtest.CreateCursorResponse(0, "eschool.users", mtest.FirstBatch),
		)
		repo := NewUserRepository(mt.DB)

		err := repo.AddEnrollment(context.Background(), user, course)
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("malformed course id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		err := repo.AddEnrollment(context.Background(), user, "42")
		if !errors.Is(err, domain.ErrCourseNotFound) {
			mt.Fatalf("expected ErrCourseNotFound, got %v", err)
		}
	})
}

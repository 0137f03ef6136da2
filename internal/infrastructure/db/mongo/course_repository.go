package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eschool/eschool-api/internal/core/domain"
)

const coursesCollection = "courses"

type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection(coursesCollection)}
}

type mongoLesson struct {
	Title   string `bson:"title"`
	Content string `bson:"content,omitempty"`
	Order   int    `bson:"order"`
}

type mongoCourse struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Price       float64            `bson:"price"`
	Instructor  primitive.ObjectID `bson:"instructor,omitempty"`
	Lessons     []mongoLesson      `bson:"lessons"`
	ImageURL    string             `bson:"imageUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (mc *mongoCourse) toDomain() *domain.Course {
	c := &domain.Course{
		ID:          mc.ID.Hex(),
		Title:       mc.Title,
		Description: mc.Description,
		Price:       mc.Price,
		Lessons:     make([]domain.Lesson, len(mc.Lessons)),
		ImageURL:    mc.ImageURL,
		CreatedAt:   mc.CreatedAt.UTC(),
	}
	if !mc.Instructor.IsZero() {
		c.InstructorID = mc.Instructor.Hex()
	}
	for i, l := range mc.Lessons {
		c.Lessons[i] = domain.Lesson{Title: l.Title, Content: l.Content, Order: l.Order}
	}
	return c
}

func (r *CourseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	return r.find(ctx, bson.M{})
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCourseNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCourse
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Course, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Course{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *CourseRepository) find(ctx context.Context, filter bson.M) ([]*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	var docs []mongoCourse
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}

	out := make([]*domain.Course, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCourse{
		Title:       course.Title,
		Description: course.Description,
		Price:       course.Price,
		Lessons:     make([]mongoLesson, len(course.Lessons)),
		ImageURL:    course.ImageURL,
		CreatedAt:   course.CreatedAt,
	}
	if course.InstructorID != "" {
		oid, err := primitive.ObjectIDFromHex(course.InstructorID)
		if err != nil {
			return nil, fmt.Errorf("insert course: invalid instructor id %q: %w", course.InstructorID, err)
		}
		doc.Instructor = oid
	}
	for i, l := range course.Lessons {
		doc.Lessons[i] = mongoLesson{Title: l.Title, Content: l.Content, Order: l.Order}
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert course: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

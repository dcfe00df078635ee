package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

const studentsCollection = "students"

// StudentRepository implements ports.StudentRepository using MongoDB.
// Documents are keyed by roll number (_id), matching the upsert semantics of
// roster imports.
type StudentRepository struct {
	col *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{col: db.Collection(studentsCollection)}
}

type mongoStudent struct {
	RollNo           string    `bson:"_id"`
	FullName         string    `bson:"full_name"`
	Subject          string    `bson:"subject"`
	ActualAttendance float64   `bson:"actual_attendance"`
	ParentID         string    `bson:"parent_id"`
	ParentName       string    `bson:"parent_name"`
	ParentPhone      string    `bson:"parent_phone"`
	ParentEmail      string    `bson:"parent_email"`
	MentorID         string    `bson:"mentor_id,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func toDomainStudent(ms mongoStudent) *domain.Student {
	return &domain.Student{
		RollNo:           ms.RollNo,
		FullName:         ms.FullName,
		Subject:          ms.Subject,
		ActualAttendance: ms.ActualAttendance,
		ParentID:         ms.ParentID,
		ParentName:       ms.ParentName,
		ParentPhone:      ms.ParentPhone,
		ParentEmail:      ms.ParentEmail,
		MentorID:         ms.MentorID,
		CreatedAt:        ms.CreatedAt,
		UpdatedAt:        ms.UpdatedAt,
	}
}

func (r *StudentRepository) ListByMentor(ctx context.Context, mentorID string) ([]*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"mentor_id": mentorID},
		options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	students := []*domain.Student{}
	for cur.Next(ctx) {
		var ms mongoStudent
		if err := cur.Decode(&ms); err != nil {
			return nil, err
		}
		students = append(students, toDomainStudent(ms))
	}
	return students, cur.Err()
}

func (r *StudentRepository) FindByRollNo(ctx context.Context, rollNo string) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoStudent
	if err := r.col.FindOne(ctx, bson.M{"_id": rollNo}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	return toDomainStudent(ms), nil
}

func (r *StudentRepository) FindByPublicID(ctx context.Context, identifier string) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"_id": identifier},
		{"parent_id": identifier},
	}}

	var ms mongoStudent
	if err := r.col.FindOne(ctx, filter).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	return toDomainStudent(ms), nil
}

// Update merges the non-nil fields into the record owned by mentorID. The
// mentor filter makes a cross-mentor update indistinguishable from a missing
// record.
func (r *StudentRepository) Update(ctx context.Context, mentorID, rollNo string, update ports.StudentUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.FullName != nil {
		set["full_name"] = *update.FullName
	}
	if update.Subject != nil {
		set["subject"] = *update.Subject
	}
	if update.ActualAttendance != nil {
		set["actual_attendance"] = *update.ActualAttendance
	}
	if update.ParentID != nil {
		set["parent_id"] = *update.ParentID
	}
	if update.ParentName != nil {
		set["parent_name"] = *update.ParentName
	}
	if update.ParentPhone != nil {
		set["parent_phone"] = *update.ParentPhone
	}
	if update.ParentEmail != nil {
		set["parent_email"] = *update.ParentEmail
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": rollNo, "mentor_id": mentorID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

// UpsertBatch writes every student keyed by roll number, claiming ownership
// for each row. created_at is only set on insert so re-imports keep the
// original record age.
func (r *StudentRepository) UpsertBatch(ctx context.Context, students []*domain.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(students))
	for _, s := range students {
		set := bson.M{
			"full_name":         s.FullName,
			"subject":           s.Subject,
			"actual_attendance": s.ActualAttendance,
			"parent_id":         s.ParentID,
			"parent_name":       s.ParentName,
			"parent_phone":      s.ParentPhone,
			"parent_email":      s.ParentEmail,
			"mentor_id":         s.MentorID,
			"updated_at":        s.UpdatedAt,
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": s.RollNo}).
			SetUpdate(bson.M{
				"$set":         set,
				"$setOnInsert": bson.M{"created_at": s.CreatedAt},
			}).
			SetUpsert(true))
	}

	res, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return res.UpsertedCount + res.MatchedCount, nil
}

func (r *StudentRepository) CountOwnedByOthers(ctx context.Context, rollNos []string, mentorID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{
		"_id":       bson.M{"$in": rollNos},
		"mentor_id": bson.M{"$nin": []string{"", mentorID}},
	})
}

func (r *StudentRepository) CountByMentor(ctx context.Context, mentorID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"mentor_id": mentorID})
}

func (r *StudentRepository) CountAlertsByMentor(ctx context.Context, mentorID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{
		"mentor_id":         mentorID,
		"actual_attendance": bson.M{"$lt": domain.AlertThreshold},
	})
}

// EnsureIndexes creates necessary indexes on the students collection.
func (r *StudentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "mentor_id", Value: 1}, {Key: "full_name", Value: 1}}},
		{Keys: bson.D{{Key: "parent_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

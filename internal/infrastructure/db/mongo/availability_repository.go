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

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
)

const collectionAvailability = "doctor_availability"

// AvailabilityRepository implements ports.AvailabilityRepository on the
// doctor_availability collection. One document per doctor.
type AvailabilityRepository struct {
	col *mongo.Collection
}

func NewAvailabilityRepository(db *mongo.Database) *AvailabilityRepository {
	return &AvailabilityRepository{col: db.Collection(collectionAvailability)}
}

type availabilityDayDoc struct {
	Date  time.Time `bson:"date"`
	Slots []string  `bson:"slots"`
}

type availabilityDoc struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	DoctorID primitive.ObjectID   `bson:"doctor_id"`
	Days     []availabilityDayDoc `bson:"availability"`
}

func (d availabilityDoc) toDomain() *domain.Availability {
	days := make([]domain.AvailabilityDay, 0, len(d.Days))
	for _, day := range d.Days {
		days = append(days, domain.AvailabilityDay{Date: day.Date, Slots: day.Slots})
	}
	return &domain.Availability{
		ID:       d.ID.Hex(),
		DoctorID: d.DoctorID.Hex(),
		Days:     days,
	}
}

// Upsert replaces the doctor's availability list wholesale, creating the
// document on first submission.
func (r *AvailabilityRepository) Upsert(ctx context.Context, a *domain.Availability) (*domain.Availability, error) {
	doctorOID, err := primitive.ObjectIDFromHex(a.DoctorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	days := make([]availabilityDayDoc, 0, len(a.Days))
	for _, day := range a.Days {
		days = append(days, availabilityDayDoc{Date: day.Date, Slots: day.Slots})
	}

	update := bson.M{"$set": bson.M{"availability": days}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc availabilityDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"doctor_id": doctorOID}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert availability: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AvailabilityRepository) FindByDoctorID(ctx context.Context, doctorID string) (*domain.Availability, error) {
	doctorOID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return nil, domain.ErrAvailabilityNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc availabilityDoc
	if err := r.col.FindOne(ctx, bson.M{"doctor_id": doctorOID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAvailabilityNotFound
		}
		return nil, fmt.Errorf("find availability: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique doctor index so a doctor can never hold
// two availability documents.
func (r *AvailabilityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "doctor_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

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
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

const collectionAppointments = "appointments"

// AppointmentRepository implements ports.AppointmentRepository on the
// appointments collection.
type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

type appointmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PatientID primitive.ObjectID `bson:"patient_id"`
	DoctorID  primitive.ObjectID `bson:"doctor_id"`
	Date      time.Time          `bson:"date"`
	Status    string             `bson:"status"`
	Reason    string             `bson:"reason,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d appointmentDoc) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:        d.ID.Hex(),
		PatientID: d.PatientID.Hex(),
		DoctorID:  d.DoctorID.Hex(),
		Date:      d.Date,
		Status:    domain.AppointmentStatus(d.Status),
		Reason:    d.Reason,
		CreatedAt: d.CreatedAt,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	patientOID, err := primitive.ObjectIDFromHex(a.PatientID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	doctorOID, err := primitive.ObjectIDFromHex(a.DoctorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := appointmentDoc{
		PatientID: patientOID,
		DoctorID:  doctorOID,
		Date:      a.Date,
		Status:    string(a.Status),
		Reason:    a.Reason,
		CreatedAt: a.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	created := *a
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc appointmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return doc.toDomain(), nil
}

// FindInWindow returns the doctor's appointments with a date in [from, to],
// bounds inclusive. Status is intentionally not part of the filter: cancelled
// appointments still block the slot.
func (r *AppointmentRepository) FindInWindow(ctx context.Context, doctorID string, from, to time.Time) ([]*domain.Appointment, error) {
	doctorOID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"doctor_id": doctorOID,
		"date":      bson.M{"$gte": from, "$lte": to},
	}
	return r.find(ctx, filter)
}

func (r *AppointmentRepository) List(ctx context.Context, f ports.ListAppointmentsFilter) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if !f.Day.IsZero() {
		start := f.Day
		filter["date"] = bson.M{"$gte": start, "$lte": start.Add(24 * time.Hour)}
	}
	if f.DoctorID != "" {
		oid, err := primitive.ObjectIDFromHex(f.DoctorID)
		if err != nil {
			return nil, domain.ErrUserNotFound
		}
		filter["doctor_id"] = oid
	}
	if f.PatientID != "" {
		oid, err := primitive.ObjectIDFromHex(f.PatientID)
		if err != nil {
			return nil, domain.ErrUserNotFound
		}
		filter["patient_id"] = oid
	}

	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc appointmentDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// FindUpcoming returns appointments across all doctors with a date in
// [from, to], used by the reminder sweep.
func (r *AppointmentRepository) FindUpcoming(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *AppointmentRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.Appointment, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Appointment
	for cur.Next(ctx) {
		var doc appointmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode appointment: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the query indexes on the appointments collection.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

package server

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/oakpoint-health/booking-portal/internal/slots"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

type dynamoAPI interface {
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// slotRecord is the persisted shape of an appointment slot. Booking details
// live on the same item as the slot they claim.
type slotRecord struct {
	AppointmentID   string `dynamodbav:"appointmentId"`
	AppointmentDate string `dynamodbav:"appointmentDate"`
	AppointmentTime string `dynamodbav:"appointmentTime"`
	Status          string `dynamodbav:"status"`
	PatientName     string `dynamodbav:"patientName,omitempty"`
	PatientEmail    string `dynamodbav:"patientEmail,omitempty"`
	Notes           string `dynamodbav:"notes,omitempty"`
}

// DynamoRepository persists slots in a DynamoDB table keyed by appointmentId.
type DynamoRepository struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

var _ SlotRepository = (*DynamoRepository)(nil)

// NewDynamoRepository builds a repository backed by the provided client.
func NewDynamoRepository(client dynamoAPI, tableName string, logger *logging.Logger) *DynamoRepository {
	if client == nil {
		panic("server: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("server: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &DynamoRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// ListAvailable scans the table for AVAILABLE slots and returns them sorted
// by (date, time label). The scan follows pagination keys until exhausted.
func (r *DynamoRepository) ListAvailable(ctx context.Context) ([]slots.Slot, error) {
	var (
		out     []slots.Slot
		startAt map[string]types.AttributeValue
	)
	for {
		page, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("#s = :available"),
			ExpressionAttributeNames: map[string]string{
				"#s": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":available": &types.AttributeValueMemberS{Value: slots.StatusAvailable},
			},
			ExclusiveStartKey: startAt,
		})
		if err != nil {
			return nil, fmt.Errorf("server: failed to scan slots: %w", err)
		}

		var records []slotRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			return nil, fmt.Errorf("server: failed to decode slots: %w", err)
		}
		for _, rec := range records {
			out = append(out, slots.Slot{
				AppointmentID:   rec.AppointmentID,
				AppointmentDate: rec.AppointmentDate,
				AppointmentTime: rec.AppointmentTime,
				Status:          rec.Status,
			})
		}

		startAt = page.LastEvaluatedKey
		if len(startAt) == 0 {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	return out, nil
}

// Book flips a slot from AVAILABLE to PENDING and records the patient's
// details on it. The condition expression loses to a concurrent booking, in
// which case ErrSlotUnavailable is returned.
func (r *DynamoRepository) Book(ctx context.Context, b Booking) error {
	if b.AppointmentID == "" {
		return errors.New("server: appointmentID required")
	}

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"appointmentId": &types.AttributeValueMemberS{Value: b.AppointmentID},
		},
		UpdateExpression: aws.String("SET #s = :pending, patientName = :name, patientEmail = :email, notes = :notes"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending":   &types.AttributeValueMemberS{Value: slots.StatusPending},
			":available": &types.AttributeValueMemberS{Value: slots.StatusAvailable},
			":name":      &types.AttributeValueMemberS{Value: b.PatientName},
			":email":     &types.AttributeValueMemberS{Value: b.PatientEmail},
			":notes":     &types.AttributeValueMemberS{Value: b.Notes},
		},
		ConditionExpression: aws.String("#s = :available"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("server: failed to book slot %s: %w", b.AppointmentID, err)
	}
	return nil
}

// UpdateStatus sets the status of an existing slot. Missing slots return
// ErrSlotNotFound rather than being created.
func (r *DynamoRepository) UpdateStatus(ctx context.Context, appointmentID, status string) error {
	if appointmentID == "" {
		return errors.New("server: appointmentID required")
	}

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"appointmentId": &types.AttributeValueMemberS{Value: appointmentID},
		},
		UpdateExpression: aws.String("SET #s = :status"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
		ConditionExpression: aws.String("attribute_exists(appointmentId)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("server: failed to update slot %s: %w", appointmentID, err)
	}
	return nil
}

// CreateIfAbsent inserts a slot only when no item with its appointmentId
// exists, so reseeding never clobbers a slot a patient already claimed.
func (r *DynamoRepository) CreateIfAbsent(ctx context.Context, s slots.Slot) (bool, error) {
	item, err := attributevalue.MarshalMap(slotRecord{
		AppointmentID:   s.AppointmentID,
		AppointmentDate: s.AppointmentDate,
		AppointmentTime: s.AppointmentTime,
		Status:          s.Status,
	})
	if err != nil {
		return false, fmt.Errorf("server: failed to marshal slot: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(appointmentId)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return false, nil
		}
		return false, fmt.Errorf("server: failed to create slot %s: %w", s.AppointmentID, err)
	}
	return true, nil
}

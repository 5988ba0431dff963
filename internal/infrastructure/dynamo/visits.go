package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gcc-cost-api/internal/domain"
)

// VisitRepo stores visits and per-user stats across two tables.
// Visits PK: visit_id, GSI on user_id. Stats PK: user_id.
type VisitRepo struct {
	client     *dynamodb.Client
	visitTable string
	statsTable string
}

func NewVisitRepo(client *dynamodb.Client, visitTable, statsTable string) *VisitRepo {
	return &VisitRepo{client: client, visitTable: visitTable, statsTable: statsTable}
}

func (r *VisitRepo) PutVisit(ctx context.Context, v *domain.Visit) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal visit: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.visitTable),
		Item:      item,
	})
	return err
}

func (r *VisitRepo) ListByUser(ctx context.Context, userID string) ([]domain.Visit, error) {
	resp, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.visitTable),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var visits []domain.Visit
	if err := attributevalue.UnmarshalListOfMaps(resp.Items, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *VisitRepo) GetStats(ctx context.Context, userID string) (*domain.VisitStats, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.statsTable),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("visit stats %s: %w", userID, domain.ErrNotFound)
	}
	var st domain.VisitStats
	if err := attributevalue.UnmarshalMap(out.Item, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *VisitRepo) PutStats(ctx context.Context, st *domain.VisitStats) error {
	item, err := attributevalue.MarshalMap(st)
	if err != nil {
		return fmt.Errorf("marshal visit stats: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.statsTable),
		Item:      item,
	})
	return err
}

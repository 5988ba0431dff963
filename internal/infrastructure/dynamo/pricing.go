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

// CityCostRepo provides typed DynamoDB operations for the city-costs table.
// PK: city.
type CityCostRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCityCostRepo(client *dynamodb.Client, tableName string) *CityCostRepo {
	return &CityCostRepo{client: client, tableName: tableName}
}

func (r *CityCostRepo) Put(ctx context.Context, c *domain.CityCost) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal city cost: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CityCostRepo) Get(ctx context.Context, city string) (*domain.CityCost, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("city", city),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("city cost %s: %w", city, domain.ErrNotFound)
	}
	var c domain.CityCost
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Scan reads the whole table. The dataset is a few dozen rows, so a paged
// scan is acceptable here.
func (r *CityCostRepo) Scan(ctx context.Context) ([]domain.CityCost, error) {
	var out []domain.CityCost
	var startKey map[string]types.AttributeValue
	for {
		resp, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.CityCost
		if err := attributevalue.UnmarshalListOfMaps(resp.Items, &page); err != nil {
			return nil, err
		}
		out = append(out, page...)
		if resp.LastEvaluatedKey == nil {
			return out, nil
		}
		startKey = resp.LastEvaluatedKey
	}
}

// PlanRateRepo provides typed DynamoDB operations for the plan-rates table.
// PK: range_id.
type PlanRateRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPlanRateRepo(client *dynamodb.Client, tableName string) *PlanRateRepo {
	return &PlanRateRepo{client: client, tableName: tableName}
}

func (r *PlanRateRepo) Put(ctx context.Context, p *domain.PlanRate) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal plan rate: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PlanRateRepo) Scan(ctx context.Context) ([]domain.PlanRate, error) {
	resp, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var rates []domain.PlanRate
	if err := attributevalue.UnmarshalListOfMaps(resp.Items, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

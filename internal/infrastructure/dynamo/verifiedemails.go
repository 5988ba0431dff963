package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gcc-cost-api/internal/domain"
)

// VerifiedEmailRepo manages the rolling window of recently verified emails.
// PK: email. TTL on expires_at.
type VerifiedEmailRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerifiedEmailRepo(client *dynamodb.Client, tableName string) *VerifiedEmailRepo {
	return &VerifiedEmailRepo{client: client, tableName: tableName}
}

// Put overwrites any existing entry for the email.
func (r *VerifiedEmailRepo) Put(ctx context.Context, e *domain.VerifiedEntry) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal verified entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *VerifiedEmailRepo) Get(ctx context.Context, email string) (*domain.VerifiedEntry, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verified entry: %w", domain.ErrNotFound)
	}
	var e domain.VerifiedEntry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *VerifiedEmailRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	return err
}

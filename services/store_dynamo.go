package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultGridTableName = "estimate_grids"

// DynamoAPI is the part of the DynamoDB client DynamoStore uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// gridItem is the DynamoDB shape of a table. Rows and columns are stored as
// JSON documents so the item mirrors the record store.
//
// Table requirements:
//   - PK: table_id (string)
type gridItem struct {
	TableID       string  `dynamodbav:"table_id"`
	Rows          string  `dynamodbav:"rows"`
	Columns       string  `dynamodbav:"columns"`
	MarkupPercent float64 `dynamodbav:"markup_percent"`
	UpdatedAt     string  `dynamodbav:"updated_at"`
}

// DynamoStore keeps grid state in a DynamoDB table keyed by table id.
type DynamoStore struct {
	ddb       DynamoAPI
	tableName string
}

var (
	_ TableStore   = (*DynamoStore)(nil)
	_ TableDeleter = (*DynamoStore)(nil)
)

// NewDynamoStore uses ESTIMATE_TABLES_DYNAMO_TABLE as the DynamoDB table name,
// defaulting to "estimate_grids".
func NewDynamoStore(ddb DynamoAPI) *DynamoStore {
	return &DynamoStore{
		ddb:       ddb,
		tableName: getenvDefault("ESTIMATE_TABLES_DYNAMO_TABLE", defaultGridTableName),
	}
}

func (s *DynamoStore) Load(ctx context.Context, tableID string) (Table, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"table_id": &types.AttributeValueMemberS{Value: tableID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Table{}, fmt.Errorf("dynamodb get %s: %w", tableID, err)
	}
	if len(out.Item) == 0 {
		return Table{}, ErrTableNotFound
	}

	var it gridItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return Table{}, fmt.Errorf("dynamodb decode %s: %w", tableID, err)
	}

	table := NewTable(tableID, nil)
	table.MarkupPercent = it.MarkupPercent
	if it.Rows != "" {
		if err := json.Unmarshal([]byte(it.Rows), &table.Rows); err != nil {
			return Table{}, fmt.Errorf("decode rows of %s: %w", tableID, err)
		}
	}
	if it.Columns != "" {
		var cols ColumnSchema
		if err := json.Unmarshal([]byte(it.Columns), &cols); err != nil {
			return Table{}, fmt.Errorf("decode columns of %s: %w", tableID, err)
		}
		if len(cols) > 0 {
			table.Columns = cols
		}
	}
	return table, nil
}

func (s *DynamoStore) Save(ctx context.Context, table Table) error {
	rows, err := json.Marshal(table.Rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	cols, err := json.Marshal(table.Columns)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}

	av, err := attributevalue.MarshalMap(gridItem{
		TableID:       table.ID,
		Rows:          string(rows),
		Columns:       string(cols),
		MarkupPercent: table.MarkupPercent,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put %s: %w", table.ID, err)
	}
	return nil
}

// Delete removes the stored grid of tableID.
func (s *DynamoStore) Delete(ctx context.Context, tableID string) error {
	_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"table_id": &types.AttributeValueMemberS{Value: tableID},
		},
	})
	return err
}

// NewDynamoClientFromEnv builds a DynamoDB client from the environment.
//
// Supported env vars (local-friendly):
//   - AWS_REGION (default: us-east-1)
//   - AWS_ACCESS_KEY_ID (default: local)
//   - AWS_SECRET_ACCESS_KEY (default: local)
//   - DYNAMODB_ENDPOINT (optional; e.g. http://localhost:8000)
func NewDynamoClientFromEnv(ctx context.Context) (*dynamodb.Client, error) {
	creds := credentials.NewStaticCredentialsProvider(
		getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(getenvDefault("AWS_REGION", "us-east-1")),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package userfields

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dooor-ai/readiness/internal/metrics"
	"github.com/dooor-ai/readiness/pkg/types"
)

// Compile-time interface satisfaction check.
var _ Store = (*DynamoDBStore)(nil)

const productIDAttr = "productId"

// DDBAPI is the subset of the DynamoDB client used by the store, extracted
// for unit testing.
type DDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// DynamoDBStore persists user fields in a DynamoDB table keyed by product id.
type DynamoDBStore struct {
	client      DDBAPI
	tableName   string
	createTable bool
	logger      *slog.Logger
}

// NewDynamoDBStore creates a DynamoDB-backed store.
func NewDynamoDBStore(cfg *types.DynamoDBConfig) (*DynamoDBStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	// For DynamoDB Local: static credentials and a custom endpoint.
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var clientOpts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &DynamoDBStore{
		client:      dynamodb.NewFromConfig(awsCfg, clientOpts...),
		tableName:   cfg.TableName,
		createTable: cfg.CreateTable,
		logger:      slog.Default(),
	}, nil
}

// Start initializes the store: optionally creates the table, then pings.
func (s *DynamoDBStore) Start(ctx context.Context) error {
	if s.createTable {
		if err := s.ensureTable(ctx); err != nil {
			return err
		}
	}
	return s.Ping(ctx)
}

// Ping checks connectivity by describing the table.
func (s *DynamoDBStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: &s.tableName,
	})
	if err != nil {
		return fmt.Errorf("dynamodb ping failed: %w", err)
	}
	return nil
}

// Get returns the stored fields for productID, or zero values when no item
// exists.
func (s *DynamoDBStore) Get(ctx context.Context, productID string) (types.UserFields, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key:       itemKey(productID),
	})
	if err != nil {
		return types.UserFields{}, fmt.Errorf("getting user fields for %s: %w", productID, err)
	}
	if out.Item == nil {
		return types.UserFields{}, nil
	}

	var fields types.UserFields
	if err := attributevalue.UnmarshalMap(out.Item, &fields); err != nil {
		return types.UserFields{}, fmt.Errorf("unmarshaling user fields: %w", err)
	}
	return fields, nil
}

// SetStage updates only the stage attribute for productID.
func (s *DynamoDBStore) SetStage(ctx context.Context, productID, stage string) error {
	return s.setAttr(ctx, productID, "stage", stage)
}

// SetObservations updates only the observations attribute for productID.
func (s *DynamoDBStore) SetObservations(ctx context.Context, productID, observations string) error {
	return s.setAttr(ctx, productID, "observations", observations)
}

func (s *DynamoDBStore) setAttr(ctx context.Context, productID, attr, value string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              itemKey(productID),
		UpdateExpression: aws.String("SET #a = :v"),
		ExpressionAttributeNames: map[string]string{
			"#a": attr,
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":v": &ddbtypes.AttributeValueMemberS{Value: value},
		},
	})
	if err != nil {
		return fmt.Errorf("updating %s for %s: %w", attr, productID, err)
	}
	metrics.UserFieldWrites.Add(1)
	return nil
}

func (s *DynamoDBStore) ensureTable(ctx context.Context) error {
	_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: &s.tableName,
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String(productIDAttr), KeyType: ddbtypes.KeyTypeHash},
		},
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String(productIDAttr), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
		BillingMode: ddbtypes.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *ddbtypes.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil // table already exists
		}
		return fmt.Errorf("creating table %s: %w", s.tableName, err)
	}
	s.logger.Info("created user fields table", "table", s.tableName)
	return nil
}

func itemKey(productID string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		productIDAttr: &ddbtypes.AttributeValueMemberS{Value: productID},
	}
}

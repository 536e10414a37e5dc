package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/clubcard/blobstore"
)

// ErrConcurrentModification is returned when another publisher advanced
// the pointer between reading and writing it.
var ErrConcurrentModification = errors.New("s3: concurrent modification detected")

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// PointerStore implements blobstore.Pointer with a DynamoDB version log.
//
// Every Advance writes version n+1 with a conditional PutItem, so two
// publishers racing for the same version cannot both win; the loser gets
// ErrConcurrentModification.
//
// Table schema:
//   - Partition key: base_uri (string) - the S3 prefix/path
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name clubcard-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type PointerStore struct {
	client    DDBClient
	tableName string
	baseURI   string
}

var _ blobstore.Pointer = (*PointerStore)(nil)

// NewPointerStore creates a pointer for baseURI ("s3://bucket/prefix").
func NewPointerStore(client DDBClient, tableName, baseURI string) *PointerStore {
	return &PointerStore{
		client:    client,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// NewPointerStoreFromConfig loads the default AWS configuration and
// returns a PointerStore backed by a new DynamoDB client.
func NewPointerStoreFromConfig(ctx context.Context, tableName, baseURI string, optFns ...func(*config.LoadOptions) error) (*PointerStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, err
	}
	return NewPointerStore(dynamodb.NewFromConfig(cfg), tableName, baseURI), nil
}

// Current returns the name recorded by the latest version.
func (p *PointerStore) Current(ctx context.Context) (string, error) {
	version, name, err := p.latest(ctx)
	if err != nil {
		return "", err
	}
	if version == 0 {
		return "", blobstore.ErrNotFound
	}
	return name, nil
}

// Version returns the latest version number, or 0 if none was written.
func (p *PointerStore) Version(ctx context.Context) (uint64, error) {
	version, _, err := p.latest(ctx)
	return version, err
}

// Advance records name as the next version.
func (p *PointerStore) Advance(ctx context.Context, name string) error {
	current, _, err := p.latest(ctx)
	if err != nil {
		return err
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(p.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":  &types.AttributeValueMemberS{Value: p.baseURI},
			"version":   &types.AttributeValueMemberN{Value: strconv.FormatUint(current+1, 10)},
			"blob_name": &types.AttributeValueMemberS{Value: name},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}
	return nil
}

func (p *PointerStore) latest(ctx context.Context) (uint64, string, error) {
	resp, err := p.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(p.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: p.baseURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query DynamoDB: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB")
	}
	nameAttr, ok := item["blob_name"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid blob_name attribute in DynamoDB")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}
	return version, nameAttr.Value, nil
}

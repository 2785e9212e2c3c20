package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"fitzone-api/internal/domain"
)

const (
	skPrefixMsg = "MSG#"
	skMeta      = "META#"
	ttlDuration = 30 * 24 * time.Hour // 30-day TTL

	// Fixed width so sort keys order lexically by time.
	sortTimeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = domain.ErrNotFound

// ErrTurnConflict is returned by AppendTurn when the conversation has moved
// past the turn being written.
var ErrTurnConflict = domain.ErrTurnConflict

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Client stores catalog content, meal plans and chat transcripts in a
// single DynamoDB table keyed by PK/SK.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// convPK returns the DynamoDB partition key for a conversation.
func convPK(conversationID string) string {
	return "CONV#" + conversationID
}

func sortTime(ts time.Time) string {
	return ts.UTC().Format(sortTimeLayout)
}

// ttlValue returns a Unix timestamp 30 days after now.
func (c *Client) ttlValue() int64 {
	return c.now().Add(ttlDuration).Unix()
}

// GetTranscript returns up to limit of the most recent messages of a
// conversation, oldest first.
func (c *Client) GetTranscript(ctx context.Context, conversationID string, limit int) ([]domain.ChatMessage, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: convPK(conversationID)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixMsg},
		},
		// Read newest first so LIMIT keeps the most recent messages.
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	out, err := c.api.Query(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("repository: GetTranscript query: %w", err)
	}

	msgs := make([]domain.ChatMessage, 0, len(out.Items))
	for _, item := range out.Items {
		msg, err := itemToMessage(item)
		if err != nil {
			return nil, fmt.Errorf("repository: GetTranscript unmarshal: %w", err)
		}
		msgs = append(msgs, msg)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// GetConversationTurnCount returns the persisted turn count for a conversation.
func (c *Client) GetConversationTurnCount(ctx context.Context, conversationID string) (int, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: convPK(conversationID)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("repository: GetConversationTurnCount get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return 0, nil
	}

	turns, err := intAttr(out.Item, "turns")
	if err != nil {
		return 0, fmt.Errorf("repository: GetConversationTurnCount decode turns: %w", err)
	}
	return turns, nil
}

// AppendTurn writes the user message, the bot reply and the updated
// conversation metadata in one transaction.
func (c *Client) AppendTurn(ctx context.Context, conversationID string, user, bot domain.ChatMessage, turns int) error {
	if strings.TrimSpace(conversationID) == "" {
		return errors.New("repository: AppendTurn: conversation id is required")
	}
	now := c.now()
	ttl := c.ttlValue()
	meta := domain.ConversationMeta{
		ConversationID: conversationID,
		LastActivity:   now.UTC().Format(time.RFC3339),
		Turns:          turns,
	}

	_, err := c.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(c.tableName),
					Item:                messageItem(conversationID, msgSK(now, 0), user, ttl),
					ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(c.tableName),
					Item:                messageItem(conversationID, msgSK(now, 1), bot, ttl),
					ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(c.tableName),
					Item:                metaItem(meta, ttl),
					ConditionExpression: aws.String("attribute_not_exists(turns) OR turns < :turns"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":turns": &types.AttributeValueMemberN{Value: strconv.Itoa(turns)},
					},
				},
			},
		},
	})
	if err != nil {
		if metaConditionFailed(err) {
			return fmt.Errorf("repository: AppendTurn %q turn %d: %w", conversationID, turns, ErrTurnConflict)
		}
		return fmt.Errorf("repository: AppendTurn: %w", err)
	}
	return nil
}

// metaConditionFailed reports whether the meta put (third item) of an
// AppendTurn transaction was rejected by its condition.
func metaConditionFailed(err error) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) || len(tce.CancellationReasons) < 3 {
		return false
	}
	return aws.ToString(tce.CancellationReasons[2].Code) == "ConditionalCheckFailed"
}

// msgSK orders the two messages of a turn after each other.
func msgSK(ts time.Time, seq int) string {
	return skPrefixMsg + sortTime(ts) + "#" + strconv.Itoa(seq)
}

// itemToMessage converts a DynamoDB attribute map to a ChatMessage.
func itemToMessage(item map[string]types.AttributeValue) (domain.ChatMessage, error) {
	id, err := strAttr(item, "messageId")
	if err != nil {
		return domain.ChatMessage{}, err
	}
	role, err := strAttr(item, "role")
	if err != nil {
		return domain.ChatMessage{}, err
	}
	text, err := strAttr(item, "text")
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return domain.ChatMessage{ID: id, Role: domain.Role(role), Text: text}, nil
}

func messageItem(conversationID, sk string, msg domain.ChatMessage, ttl int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":             &types.AttributeValueMemberS{Value: convPK(conversationID)},
		"SK":             &types.AttributeValueMemberS{Value: sk},
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		"messageId":      &types.AttributeValueMemberS{Value: msg.ID},
		"role":           &types.AttributeValueMemberS{Value: string(msg.Role)},
		"text":           &types.AttributeValueMemberS{Value: msg.Text},
		"ttl":            &types.AttributeValueMemberN{Value: strconv.FormatInt(ttl, 10)},
	}
}

func metaItem(meta domain.ConversationMeta, ttl int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":             &types.AttributeValueMemberS{Value: convPK(meta.ConversationID)},
		"SK":             &types.AttributeValueMemberS{Value: skMeta},
		"conversationId": &types.AttributeValueMemberS{Value: meta.ConversationID},
		"lastActivity":   &types.AttributeValueMemberS{Value: meta.LastActivity},
		"turns":          &types.AttributeValueMemberN{Value: strconv.Itoa(meta.Turns)},
		"ttl":            &types.AttributeValueMemberN{Value: strconv.FormatInt(ttl, 10)},
	}
}

// docItem stores v as a JSON document under PK/SK. Extra attributes are
// copied in for filters.
func docItem(pk, sk string, v any, extra map[string]string) (map[string]types.AttributeValue, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("repository: encode %s/%s: %w", pk, sk, err)
	}
	item := map[string]types.AttributeValue{
		"PK":   &types.AttributeValueMemberS{Value: pk},
		"SK":   &types.AttributeValueMemberS{Value: sk},
		"data": &types.AttributeValueMemberS{Value: string(data)},
	}
	for k, val := range extra {
		item[k] = &types.AttributeValueMemberS{Value: val}
	}
	return item, nil
}

func decodeDoc(item map[string]types.AttributeValue, v any) error {
	data, err := strAttr(item, "data")
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("repository: decode document: %w", err)
	}
	return nil
}

func (c *Client) putDoc(ctx context.Context, pk, sk string, v any, extra map[string]string) error {
	item, err := docItem(pk, sk, v, extra)
	if err != nil {
		return err
	}
	_, err = c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      item,
	})
	return err
}

func (c *Client) getDoc(ctx context.Context, pk, sk string, v any) error {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return err
	}
	if out == nil || len(out.Item) == 0 {
		return ErrNotFound
	}
	return decodeDoc(out.Item, v)
}

// queryDocs reads every document under pk whose SK starts with prefix, in
// sort key order, following pagination.
func queryDocs[T any](ctx context.Context, c *Client, pk, prefix string, filter map[string]string) ([]T, error) {
	values := map[string]types.AttributeValue{
		":pk":     &types.AttributeValueMemberS{Value: pk},
		":prefix": &types.AttributeValueMemberS{Value: prefix},
	}
	in := &dynamodb.QueryInput{
		TableName:                 aws.String(c.tableName),
		KeyConditionExpression:    aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(true),
	}
	if len(filter) > 0 {
		names := map[string]string{}
		clauses := make([]string, 0, len(filter))
		i := 0
		for attr, want := range filter {
			n, v := "#f"+strconv.Itoa(i), ":f"+strconv.Itoa(i)
			names[n] = attr
			values[v] = &types.AttributeValueMemberS{Value: want}
			clauses = append(clauses, n+" = "+v)
			i++
		}
		in.ExpressionAttributeNames = names
		in.FilterExpression = aws.String(strings.Join(clauses, " AND "))
	}

	var docs []T
	for {
		out, err := c.api.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			var doc T
			if err := decodeDoc(item, &doc); err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return docs, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func intAttr(item map[string]types.AttributeValue, key string) (int, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}

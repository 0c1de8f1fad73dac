// Package dynamodb stores the record collections in a single DynamoDB table.
// Every record of a board shares the partition key BOARD#<id> and the sort
// key is prefixed with the record kind.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"relationmap/application/ports"
	"relationmap/domain/core/entities"
	"relationmap/domain/core/valueobjects"
	"relationmap/domain/rules"
	pkgerrors "relationmap/pkg/errors"
	"relationmap/pkg/utils"
)

// API is the subset of the DynamoDB client the store uses
type API interface {
	dynamodb.QueryAPIClient
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Sort key prefixes
const (
	prefixPoint      = "POINT#"
	prefixConnection = "CONNECTION#"
	prefixNote       = "NOTE#"
	prefixTag        = "TAG#"
)

// Store is a DynamoDB-backed store scoped to one board
type Store struct {
	client    API
	tableName string
	boardID   string
	logger    *zap.Logger
}

// NewStore creates a store over tableName for boardID
func NewStore(client API, tableName, boardID string, logger *zap.Logger) *Store {
	return &Store{client: client, tableName: tableName, boardID: boardID, logger: logger}
}

// Points returns the point repository view of the store
func (s *Store) Points() *PointRepository { return &PointRepository{s: s} }

// Connections returns the connection repository view of the store
func (s *Store) Connections() *ConnectionRepository { return &ConnectionRepository{s: s} }

// Notes returns the note repository view of the store
func (s *Store) Notes() *NoteRepository { return &NoteRepository{s: s} }

// Tags returns the tag repository view of the store
func (s *Store) Tags() *TagRepository { return &TagRepository{s: s} }

var (
	_ ports.PointRepository      = (*PointRepository)(nil)
	_ ports.ConnectionRepository = (*ConnectionRepository)(nil)
	_ ports.NoteRepository       = (*NoteRepository)(nil)
	_ ports.TagRepository        = (*TagRepository)(nil)
)

func (s *Store) pk() string {
	return "BOARD#" + s.boardID
}

func (s *Store) key(prefix, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: s.pk()},
		"SK": &types.AttributeValueMemberS{Value: prefix + id},
	}
}

// record carries the fields shared by every item
type record struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ID         string `dynamodbav:"ID"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

type pointItem struct {
	record
	Type string   `dynamodbav:"Type"`
	X    float64  `dynamodbav:"X"`
	Y    float64  `dynamodbav:"Y"`
	Name string   `dynamodbav:"Name"`
	Tags []string `dynamodbav:"Tags"`
}

func (i pointItem) point() *entities.Point {
	p := &entities.Point{ID: i.ID, Type: i.Type, X: i.X, Y: i.Y, Name: i.Name, Tags: i.Tags}
	p.Normalize()
	return p
}

type connectionItem struct {
	record
	FromID string `dynamodbav:"FromID"`
	ToID   string `dynamodbav:"ToID"`
}

func (i connectionItem) connection() *entities.Connection {
	return &entities.Connection{ID: i.ID, From: i.FromID, To: i.ToID}
}

type noteItem struct {
	record
	PointID      string   `dynamodbav:"PointID"`
	ConnectionID string   `dynamodbav:"ConnectionID"`
	Text         string   `dynamodbav:"Text"`
	Image        string   `dynamodbav:"Image"`
	Tags         []string `dynamodbav:"Tags"`
}

func (i noteItem) note() *entities.Note {
	n := &entities.Note{ID: i.ID, PointID: i.PointID, ConnectionID: i.ConnectionID, Text: i.Text, Image: i.Image, Tags: i.Tags}
	n.Normalize()
	return n
}

type tagItem struct {
	record
	Name  string `dynamodbav:"Name"`
	Color string `dynamodbav:"Color"`
}

func (s *Store) newRecord(entityType, prefix, id, createdAt string) record {
	if createdAt == "" {
		createdAt = utils.NowSortable()
	}
	return record{
		PK:         s.pk(),
		SK:         prefix + id,
		EntityType: entityType,
		ID:         id,
		CreatedAt:  createdAt,
	}
}

// put writes item. mustExist selects between create and replace semantics.
func (s *Store) put(ctx context.Context, item any, mustExist bool, resource string) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal "+resource, err)
	}

	cond := expression.AttributeNotExists(expression.Name("PK"))
	if mustExist {
		cond = expression.AttributeExists(expression.Name("PK"))
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return pkgerrors.NewDatabaseError("build "+resource+" condition", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.tableName),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		if mustExist {
			return pkgerrors.NewNotFoundError(resource)
		}
		return pkgerrors.NewDatabaseError("create "+resource, fmt.Errorf("duplicate id: %w", err))
	}
	if err != nil {
		return pkgerrors.NewDatabaseError("put "+resource, err)
	}
	return nil
}

// get loads one item into out
func (s *Store) get(ctx context.Context, prefix, id, resource string, out any) error {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.key(prefix, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("get "+resource, err)
	}
	if len(result.Item) == 0 {
		return pkgerrors.NewNotFoundError(resource)
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return pkgerrors.NewDatabaseError("unmarshal "+resource, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, prefix, id, resource string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(prefix, id),
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("delete "+resource, err)
	}
	return nil
}

// query returns every item of one kind in the board's partition
func (s *Store) query(ctx context.Context, prefix string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(s.pk())).
		And(expression.Key("SK").BeginsWith(prefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, err
	}

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
	})

	var items []map[string]types.AttributeValue
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// list queries one kind and decodes it in creation order
func list[T any](ctx context.Context, s *Store, prefix, resource string, createdAt func(*T) string) ([]*T, error) {
	items, err := s.query(ctx, prefix)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list "+resource, err)
	}
	out := make([]*T, 0, len(items))
	for _, item := range items {
		var v T
		if err := attributevalue.UnmarshalMap(item, &v); err != nil {
			return nil, pkgerrors.NewDatabaseError("unmarshal "+resource, err)
		}
		out = append(out, &v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.Compare(createdAt(out[i]), createdAt(out[j])) < 0
	})
	return out, nil
}

// PointRepository implements ports.PointRepository
type PointRepository struct{ s *Store }

func (r *PointRepository) List(ctx context.Context) ([]*entities.Point, error) {
	items, err := list(ctx, r.s, prefixPoint, "points", func(i *pointItem) string { return i.CreatedAt })
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Point, 0, len(items))
	for _, item := range items {
		out = append(out, item.point())
	}
	return out, nil
}

func (r *PointRepository) GetByID(ctx context.Context, id string) (*entities.Point, error) {
	var item pointItem
	if err := r.s.get(ctx, prefixPoint, id, "point", &item); err != nil {
		return nil, err
	}
	return item.point(), nil
}

func (r *PointRepository) item(p *entities.Point, createdAt string) pointItem {
	p.Normalize()
	return pointItem{
		record: r.s.newRecord("POINT", prefixPoint, p.ID, createdAt),
		Type:   p.Type,
		X:      p.X,
		Y:      p.Y,
		Name:   p.Name,
		Tags:   p.Tags,
	}
}

func (r *PointRepository) Create(ctx context.Context, point *entities.Point) error {
	point.ID = valueobjects.NewRecordID().String()
	return r.s.put(ctx, r.item(point, ""), false, "point")
}

func (r *PointRepository) Update(ctx context.Context, point *entities.Point) error {
	var existing pointItem
	if err := r.s.get(ctx, prefixPoint, point.ID, "point", &existing); err != nil {
		return err
	}
	return r.s.put(ctx, r.item(point, existing.CreatedAt), true, "point")
}

func (r *PointRepository) AddTags(ctx context.Context, id string, tagIDs []string) (*entities.Point, error) {
	var existing pointItem
	if err := r.s.get(ctx, prefixPoint, id, "point", &existing); err != nil {
		return nil, err
	}
	p := existing.point()
	p.Tags = rules.UnionTags(p.Tags, tagIDs...)
	if err := r.s.put(ctx, r.item(p, existing.CreatedAt), true, "point"); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PointRepository) Delete(ctx context.Context, id string) error {
	return r.s.delete(ctx, prefixPoint, id, "point")
}

// ConnectionRepository implements ports.ConnectionRepository
type ConnectionRepository struct{ s *Store }

func (r *ConnectionRepository) items(ctx context.Context) ([]*connectionItem, error) {
	return list(ctx, r.s, prefixConnection, "connections", func(i *connectionItem) string { return i.CreatedAt })
}

func (r *ConnectionRepository) List(ctx context.Context) ([]*entities.Connection, error) {
	items, err := r.items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Connection, 0, len(items))
	for _, item := range items {
		out = append(out, item.connection())
	}
	return out, nil
}

func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*entities.Connection, error) {
	var item connectionItem
	if err := r.s.get(ctx, prefixConnection, id, "connection", &item); err != nil {
		return nil, err
	}
	return item.connection(), nil
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *entities.Connection) error {
	conn.ID = valueobjects.NewRecordID().String()
	item := connectionItem{
		record: r.s.newRecord("CONNECTION", prefixConnection, conn.ID, ""),
		FromID: conn.From,
		ToID:   conn.To,
	}
	return r.s.put(ctx, item, false, "connection")
}

func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	return r.s.delete(ctx, prefixConnection, id, "connection")
}

func (r *ConnectionRepository) DeleteByPoint(ctx context.Context, pointID string) (int, error) {
	items, err := r.items(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, item := range items {
		if !item.connection().Touches(pointID) {
			continue
		}
		if err := r.s.delete(ctx, prefixConnection, item.ID, "connection"); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// NoteRepository implements ports.NoteRepository
type NoteRepository struct{ s *Store }

func (r *NoteRepository) items(ctx context.Context) ([]*noteItem, error) {
	return list(ctx, r.s, prefixNote, "notes", func(i *noteItem) string { return i.CreatedAt })
}

func (r *NoteRepository) List(ctx context.Context) ([]*entities.Note, error) {
	items, err := r.items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Note, 0, len(items))
	for _, item := range items {
		out = append(out, item.note())
	}
	return out, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*entities.Note, error) {
	var item noteItem
	if err := r.s.get(ctx, prefixNote, id, "note", &item); err != nil {
		return nil, err
	}
	return item.note(), nil
}

func (r *NoteRepository) item(n *entities.Note, createdAt string) noteItem {
	n.Normalize()
	return noteItem{
		record:       r.s.newRecord("NOTE", prefixNote, n.ID, createdAt),
		PointID:      n.PointID,
		ConnectionID: n.ConnectionID,
		Text:         n.Text,
		Image:        n.Image,
		Tags:         n.Tags,
	}
}

func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	note.ID = valueobjects.NewRecordID().String()
	return r.s.put(ctx, r.item(note, ""), false, "note")
}

func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	var existing noteItem
	if err := r.s.get(ctx, prefixNote, note.ID, "note", &existing); err != nil {
		return err
	}
	return r.s.put(ctx, r.item(note, existing.CreatedAt), true, "note")
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return r.s.delete(ctx, prefixNote, id, "note")
}

func (r *NoteRepository) DeleteByPoint(ctx context.Context, pointID string) (int, error) {
	items, err := r.items(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, item := range items {
		if !item.note().BelongsToPoint(pointID) {
			continue
		}
		if err := r.s.delete(ctx, prefixNote, item.ID, "note"); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// TagRepository implements ports.TagRepository
type TagRepository struct{ s *Store }

func (r *TagRepository) List(ctx context.Context) ([]*entities.Tag, error) {
	items, err := list(ctx, r.s, prefixTag, "tags", func(i *tagItem) string { return i.CreatedAt })
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Tag, 0, len(items))
	for _, item := range items {
		out = append(out, &entities.Tag{ID: item.ID, Name: item.Name, Color: item.Color})
	}
	return out, nil
}

func (r *TagRepository) Create(ctx context.Context, tag *entities.Tag) error {
	tag.ID = valueobjects.NewRecordID().String()
	item := tagItem{
		record: r.s.newRecord("TAG", prefixTag, tag.ID, ""),
		Name:   tag.Name,
		Color:  tag.Color,
	}
	return r.s.put(ctx, item, false, "tag")
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"postboard/internal/model"
	"postboard/internal/service"
	"postboard/pkg/logger"
	"postboard/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var (
	ErrBuildingQuery = errors.New("error building sql-query")
)

// Supplied id when free and positive, otherwise max(id) + 1.
var idExpr = fmt.Sprintf(
	"CASE WHEN ?::bigint > 0 AND NOT EXISTS (SELECT 1 FROM %[1]s WHERE %[2]s = ?::bigint) "+
		"THEN ?::bigint ELSE COALESCE((SELECT MAX(%[2]s) FROM %[1]s), 0) + 1 END",
	tableinfo.PostsTableName, tableinfo.PostIDColumn,
)

var returningPost = "RETURNING " + tableinfo.PostIDColumn + ", " +
	tableinfo.PostTitleColumn + ", " +
	tableinfo.PostDescriptionColumn + ", " +
	tableinfo.PostImageColumn + ", " +
	tableinfo.PostDateColumn + ", " +
	tableinfo.PostReadTimeColumn + ", " +
	tableinfo.PostSlugColumn + ", " +
	tableinfo.PostLinkColumn

type PostStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewPostStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{
		db:     db,
		getter: getter,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Image,
		&p.Date,
		&p.ReadTime,
		&p.Slug,
		&p.Link,
	)
	return p, err
}

func selectPosts() sq.SelectBuilder {
	return sq.
		Select(tableinfo.PostColumns...).
		From(tableinfo.PostsTableName).
		OrderBy(tableinfo.PostPositionColumn + " DESC").
		PlaceholderFormat(sq.Dollar)
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(tableinfo.PostColumns...).
		Values(
			sq.Expr(idExpr, in.ID, in.ID, in.ID),
			in.Title,
			in.Description,
			in.Image,
			in.Date,
			in.ReadTime,
			in.Slug,
			in.Link,
		).
		Suffix(returningPost).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Post{}, fmt.Errorf("exec insert post: %w", err)
	}
	if in.ID > 0 && out.ID != in.ID {
		logger.FromContext(ctx).Warn("post id already taken, assigned a new one", "requested", in.ID, "id", out.ID)
	}
	return out, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, postID int64, patch model.PostPatch) (model.Post, error) {
	set := patchColumns(patch)
	if len(set) == 0 {
		return s.GetPostByID(ctx, postID)
	}

	query, args, err := sq.
		Update(tableinfo.PostsTableName).
		SetMap(set).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		Suffix(returningPost).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec update post: %w", err)
	}
	return out, nil
}

func patchColumns(patch model.PostPatch) map[string]any {
	set := make(map[string]any)
	put := func(col string, v *string) {
		if v != nil {
			set[col] = *v
		}
	}
	put(tableinfo.PostTitleColumn, patch.Title)
	put(tableinfo.PostDescriptionColumn, patch.Description)
	put(tableinfo.PostImageColumn, patch.Image)
	put(tableinfo.PostDateColumn, patch.Date)
	put(tableinfo.PostReadTimeColumn, patch.ReadTime)
	put(tableinfo.PostSlugColumn, patch.Slug)
	put(tableinfo.PostLinkColumn, patch.Link)
	return set
}

func (s *PostStorage) DeletePost(ctx context.Context, postID int64) error {
	query, args, err := sq.
		Delete(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *PostStorage) GetPosts(ctx context.Context) ([]model.Post, error) {
	query, args, err := selectPosts().ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	return s.getOne(ctx, sq.Eq{tableinfo.PostIDColumn: postID}, "exec select post by id")
}

func (s *PostStorage) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	return s.getOne(ctx, sq.Eq{tableinfo.PostSlugColumn: slug}, "exec select post by slug")
}

func (s *PostStorage) getOne(ctx context.Context, where sq.Eq, op string) (model.Post, error) {
	query, args, err := selectPosts().Where(where).Limit(1).ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// SeedPosts fills an empty table with posts, keeping their order. It reports
// whether anything was inserted.
func (s *PostStorage) SeedPosts(ctx context.Context, posts []model.Post) (bool, error) {
	if len(posts) == 0 {
		return false, nil
	}

	countQuery, countArgs, err := sq.
		Select("COUNT(*)").
		From(tableinfo.PostsTableName).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	var count int64
	if err := tr.QueryRow(ctx, countQuery, countArgs...).Scan(&count); err != nil {
		return false, fmt.Errorf("exec count posts: %w", err)
	}
	if count > 0 {
		logger.FromContext(ctx).Debug("posts table not empty, skipping seed", "count", count)
		return false, nil
	}

	// Last inserted row gets the highest position and is shown first.
	ordered := model.UniqueIDs(posts)
	slices.Reverse(ordered)

	qb := sq.
		Insert(tableinfo.PostsTableName).
		Columns(tableinfo.PostColumns...).
		PlaceholderFormat(sq.Dollar)
	for _, p := range ordered {
		qb = qb.Values(p.ID, p.Title, p.Description, p.Image, p.Date, p.ReadTime, p.Slug, p.Link)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}
	if _, err := tr.Exec(ctx, query, args...); err != nil {
		return false, fmt.Errorf("exec seed posts: %w", err)
	}
	return true, nil
}

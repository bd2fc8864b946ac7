package db

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/Manaswi925/ChimeIn/internal/models"
	"github.com/Manaswi925/ChimeIn/internal/utils"
)

// CommunityH is a handle to one community, carrying the perms the requesting
// user holds inside it.
type CommunityH struct {
	sharedDB     DBTX
	rawCommunity *models.Community
	perms        models.Perms
}

func (sdb *SharedDB) CreateCommunity(ctx context.Context, req *models.CommunityReq, uH *UserH) (*CommunityH, error) {
	if uH == nil {
		return nil, models.ErrPermDenied
	}
	if err := uH.perms.Require(models.PermCreateCommunity); err != nil {
		return nil, err
	}

	var exists bool
	err := pgxscan.Get(ctx, sdb.db, &exists,
		"SELECT exists(SELECT 1 FROM communities WHERE name = $1)", req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNameAlreadyUsed
	}

	community := &models.Community{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
		CreatedAt:   time.Now(),
	}
	err = execTx(ctx, sdb.db, func(ctx context.Context, tx DBTX) error {
		sql, args, _ := psql.
			Insert("communities").
			Columns("name", "description", "public", "created_at").
			Values(community.Name, community.Description, community.Public, community.CreatedAt).
			ToSql()
		_, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		return insertMember(ctx, tx, community.Name, uH.id)
	})
	if err != nil {
		return nil, err
	}

	return &CommunityH{sdb.db, community, uH.perms}, nil
}

func (sdb *SharedDB) GetCommunityH(ctx context.Context, name string, uH *UserH) (*CommunityH, error) {
	var community models.Community
	err := pgxscan.Get(ctx, sdb.db, &community, "SELECT * FROM communities WHERE name = $1", name)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}

	perms := models.Perms{}
	if uH != nil {
		perms = uH.perms
	}
	if !community.Public {
		// Private communities are readable by members only
		if uH == nil || !isMember(ctx, sdb.db, name, uH.id) {
			return nil, models.ErrPermDenied
		}
	}
	return &CommunityH{sdb.db, &community, perms}, nil
}

func (h *CommunityH) Name() string {
	return h.rawCommunity.Name
}

func (h *CommunityH) ReadView(ctx context.Context, uH *UserH) (*models.CommunityView, error) {
	var userID *int
	if uH != nil {
		userID = &uH.id
	}
	sql, args, _ := selectCommunity(userID).
		Where(sq.Eq{"communities.name": h.rawCommunity.Name}).
		ToSql()

	var view models.CommunityView
	err := pgxscan.Get(ctx, h.sharedDB, &view, sql, args...)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (h *CommunityH) AddMember(ctx context.Context, uH *UserH) error {
	if uH == nil {
		return models.ErrPermDenied
	}
	return insertMember(ctx, h.sharedDB, h.rawCommunity.Name, uH.id)
}

func (h *CommunityH) RemoveMember(ctx context.Context, uH *UserH) error {
	if uH == nil {
		return models.ErrPermDenied
	}
	sql, args, _ := psql.
		Delete("community_users").
		Where(sq.Eq{"community": h.rawCommunity.Name, "user_id": uH.id}).
		ToSql()

	_, err := h.sharedDB.Exec(ctx, sql, args...)
	return err
}

func (h *CommunityH) ListMembers(ctx context.Context) ([]models.Member, error) {
	sql, args, _ := psql.
		Select("community_users.user_id", "community_users.joined_at", "users.name").
		From("community_users").
		Join("users ON community_users.user_id = users.id").
		Where(sq.Eq{"community_users.community": h.rawCommunity.Name}).
		OrderBy("community_users.user_id").
		ToSql()

	members := []models.Member{}
	err := pgxscan.Select(ctx, h.sharedDB, &members, sql, args...)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// CreatePost stores already-moderated content as a live post.
func (h *CommunityH) CreatePost(ctx context.Context, post *models.Post, uH *UserH) (*PostH, error) {
	if uH == nil {
		return nil, models.ErrPermDenied
	}
	if err := uH.perms.Require(models.PermCreatePost); err != nil {
		return nil, err
	}
	if len(post.Content) == 0 || len(post.Content) > LimitMaxContentLen {
		return nil, ErrBadContentLen
	}
	post.Community = h.rawCommunity.Name
	post.AuthorID = uH.id
	post.CreatedAt = time.Now()

	err := insertPost(ctx, h.sharedDB, post)
	if err != nil {
		return nil, err
	}
	return &PostH{h.sharedDB, post.ID, models.NewPerms(models.PermDeletePost, models.PermCreateComment)}, nil
}

// CreatePendingPost stages content for deferred confirmation instead of
// publishing it. The returned record carries the confirmation token.
func (h *CommunityH) CreatePendingPost(ctx context.Context, pending *models.PendingPost, uH *UserH) (*models.PendingPost, error) {
	if uH == nil {
		return nil, models.ErrPermDenied
	}
	if err := uH.perms.Require(models.PermCreatePost); err != nil {
		return nil, err
	}
	if len(pending.Content) == 0 || len(pending.Content) > LimitMaxContentLen {
		return nil, ErrBadContentLen
	}
	pending.Community = h.rawCommunity.Name
	pending.AuthorID = uH.id
	pending.Status = models.PendingStatusPending
	pending.ConfirmationToken = utils.GenToken(TokenLen)
	pending.CreatedAt = time.Now()

	sql, args, _ := psql.
		Insert("pending_posts").
		Columns("author_id", "community", "content", "media_path", "status", "confirmation_token", "created_at").
		Values(pending.AuthorID, pending.Community, pending.Content, pending.MediaPath,
			pending.Status, pending.ConfirmationToken, pending.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	row := h.sharedDB.QueryRow(ctx, sql, args...)
	err := row.Scan(&pending.ID)
	if err != nil {
		return nil, err
	}
	return pending, nil
}

func (h *CommunityH) GetPostH(ctx context.Context, id int, uH *UserH) (*PostH, error) {
	// Check the post belongs to this community
	sql, args, _ := psql.
		Select("1").
		From("posts").
		Where(sq.Eq{"community": h.rawCommunity.Name, "id": id}).
		ToSql()

	row := h.sharedDB.QueryRow(ctx, sql, args...)
	var b int
	err := row.Scan(&b)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}

	isOwner := false
	if uH != nil {
		isOwner = isPostOwner(ctx, h.sharedDB, id, uH.id)
	}

	// Assign capabilities: owners can always delete their own content,
	// privileged users can delete anyone's
	postPerms := models.NewPerms()
	if uH != nil {
		postPerms = postPerms.Union(uH.perms.Intersect(models.NewPerms(
			models.PermDeletePost,
			models.PermDeleteComment,
			models.PermCreateComment,
		)))
	}
	if isOwner {
		postPerms = postPerms.Union(models.NewPerms(models.PermDeletePost))
	}
	return &PostH{h.sharedDB, id, postPerms}, nil
}

func (h *CommunityH) ListPosts(ctx context.Context) ([]models.PostView, error) {
	var posts []models.PostView

	sql, args, _ := selectPostWithJoins().
		Where(sq.Eq{"posts.community": h.rawCommunity.Name}).
		OrderBy("posts.id DESC").
		ToSql()

	err := pgxscan.Select(ctx, h.sharedDB, &posts, sql, args...)
	return posts, err
}

func insertMember(ctx context.Context, db DBTX, community string, userID int) error {
	sql, args, _ := psql.
		Insert("community_users").
		Columns("community", "user_id").
		Values(community, userID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()

	_, err := db.Exec(ctx, sql, args...)
	return err
}

func isMember(ctx context.Context, db DBTX, community string, userID int) bool {
	sql, args, _ := psql.
		Select("1").
		From("community_users").
		Where(sq.Eq{"community": community, "user_id": userID}).
		ToSql()

	var b int
	err := db.QueryRow(ctx, sql, args...).Scan(&b)
	return err == nil
}

func selectCommunity(userID *int) sq.SelectBuilder {
	return psql.Select(
		"name",
		"description",
		"COUNT(community_users.user_id) AS members_count",
	).
		Column("COALESCE(bool_or(community_users.user_id = ?), false) AS is_member", userID).
		From("communities").
		LeftJoin("community_users ON communities.name = community_users.community").
		GroupBy("communities.name")
}

package store

import (
	"context"
	"fmt"
	"time"

	"example.com/golfbuddy/internal/models"
	"github.com/gocql/gocql"
)

// SessionInterface is the subset of *gocql.Session the notification store uses.
type SessionInterface interface {
	Query(stmt string, values ...interface{}) *gocql.Query
	Close()
}

// CassandraConfig holds the connection parameters for the notification cluster.
type CassandraConfig struct {
	Host     string
	Keyspace string
	Username string
	Password string
	Timeout  time.Duration
	DC       string
}

// Notifications stores notification timelines in Cassandra, one partition per
// recipient, newest first.
type Notifications struct {
	Session SessionInterface
}

// NewNotifications ensures the keyspace, runs the CQL migrations and opens a
// session.
func NewNotifications(cfg CassandraConfig) (*Notifications, error) {
	if err := ensureKeyspace(cfg); err != nil {
		return nil, fmt.Errorf("failed to ensure keyspace: %w", err)
	}

	if err := MigrateCassandra(cfg.Host, cfg.Keyspace); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cluster := newCluster(cfg)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.Quorum

	sess, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create Cassandra session: %w", err)
	}

	logg.Info("Connected to Cassandra keyspace (host anonymized)")
	return &Notifications{Session: sess}, nil
}

func newCluster(cfg CassandraConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Host)
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
		cluster.ConnectTimeout = cfg.Timeout
	}

	if cfg.Username != "" && cfg.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	if cfg.DC != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.DCAwareRoundRobinPolicy(cfg.DC)
		cluster.HostFilter = gocql.DataCentreHostFilter(cfg.DC)
	}
	return cluster
}

// --- Ensure keyspace exists before migrations ---

func ensureKeyspace(cfg CassandraConfig) error {
	cluster := newCluster(cfg)
	cluster.Keyspace = "system"
	sess, err := cluster.CreateSession()
	if err != nil {
		return fmt.Errorf("failed to connect to Cassandra system keyspace: %w", err)
	}
	defer sess.Close()

	query := fmt.Sprintf(`
        CREATE KEYSPACE IF NOT EXISTS %s
        WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1};
    `, cfg.Keyspace)

	if err := sess.Query(query).Exec(); err != nil {
		return fmt.Errorf("failed to create keyspace: %w", err)
	}

	logg.Info("Ensured Cassandra keyspace exists (keyspace name anonymized)")
	return nil
}

// --- Notification operations ---

func (n *Notifications) AddNotification(ctx context.Context, nt models.Notification) error {
	id := gocql.UUIDFromTime(nt.Created)
	if nt.ID != "" {
		parsed, err := gocql.ParseUUID(nt.ID)
		if err != nil {
			return fmt.Errorf("invalid notification id: %w", err)
		}
		id = parsed
	}

	if err := n.Session.Query(`
		INSERT INTO notifications_by_user (user_id, notification_id, type, actor_id, post_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nt.UserID, id, string(nt.Type), nt.ActorID, nt.PostID, nt.Created,
	).WithContext(ctx).Exec(); err != nil {
		logg.Error("Failed to add notification", err)
		return err
	}
	return nil
}

func (n *Notifications) ListNotifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	iter := n.Session.Query(`
		SELECT notification_id, type, actor_id, post_id, created_at
		FROM notifications_by_user WHERE user_id = ? LIMIT ?`,
		userID, limit,
	).WithContext(ctx).Iter()

	res := []models.Notification{}
	var id gocql.UUID
	var typ string
	var actorID, postID int64
	var created time.Time

	for iter.Scan(&id, &typ, &actorID, &postID, &created) {
		res = append(res, models.Notification{
			UserID:  userID,
			ID:      id.String(),
			Type:    models.EventType(typ),
			ActorID: actorID,
			PostID:  postID,
			Created: created,
		})
	}

	if err := iter.Close(); err != nil {
		logg.Error("Failed to read notifications", err)
		return nil, err
	}
	return res, nil
}

// Close gracefully closes Cassandra session.
func (n *Notifications) Close() {
	if n.Session != nil {
		n.Session.Close()
		logg.Info("Cassandra session closed")
	}
}

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jatinbhagat/decipherworld-backend/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	db     *sql.DB
	config *config.DBConfig
}

func NewPostgresClient(cfg *config.DBConfig) (*PostgresClient, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{
		db:     db,
		config: cfg,
	}, nil
}

func (c *PostgresClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.db
}

func (c *PostgresClient) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS game_sessions (
			id VARCHAR(36) PRIMARY KEY,
			session_code VARCHAR(10) NOT NULL UNIQUE,
			game_type VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'waiting',
			current_phase INTEGER NOT NULL DEFAULT 0,
			current_round INTEGER NOT NULL DEFAULT 0,
			player_count INTEGER NOT NULL DEFAULT 0,
			max_players INTEGER NOT NULL DEFAULT 8,
			facilitator_id VARCHAR(64) NOT NULL DEFAULT '',
			session_data JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_game_sessions_code ON game_sessions(session_code);
		CREATE INDEX IF NOT EXISTS idx_game_sessions_status ON game_sessions(status);

		CREATE TABLE IF NOT EXISTS game_players (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL REFERENCES game_sessions(id),
			player_session_id VARCHAR(64) NOT NULL,
			player_name VARCHAR(100) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT '',
			total_score INTEGER NOT NULL DEFAULT 0,
			actions_completed INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			player_data JSONB NOT NULL DEFAULT '{}',
			joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_activity TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (session_id, player_session_id)
		);
		CREATE INDEX IF NOT EXISTS idx_game_players_session ON game_players(session_id);

		CREATE TABLE IF NOT EXISTS challenges (
			id VARCHAR(36) PRIMARY KEY,
			game_type VARCHAR(50) NOT NULL,
			kind VARCHAR(50) NOT NULL,
			mission_order INTEGER NOT NULL DEFAULT 0,
			title VARCHAR(200) NOT NULL,
			text TEXT NOT NULL,
			options JSONB NOT NULL DEFAULT '[]',
			correct_answer TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL DEFAULT 10,
			time_limit_sec INTEGER NOT NULL DEFAULT 0,
			explanation TEXT NOT NULL DEFAULT '',
			order_index INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE INDEX IF NOT EXISTS idx_challenges_game_type ON challenges(game_type, order_index);

		CREATE TABLE IF NOT EXISTS player_responses (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL REFERENCES game_sessions(id),
			player_id VARCHAR(36) NOT NULL REFERENCES game_players(id),
			challenge_id VARCHAR(36) NOT NULL REFERENCES challenges(id),
			answer TEXT NOT NULL,
			is_correct BOOLEAN NOT NULL,
			points_earned INTEGER NOT NULL DEFAULT 0,
			time_spent_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (player_id, challenge_id)
		);
		CREATE INDEX IF NOT EXISTS idx_player_responses_session ON player_responses(session_id);

		CREATE TABLE IF NOT EXISTS player_badges (
			id VARCHAR(36) PRIMARY KEY,
			player_id VARCHAR(36) NOT NULL REFERENCES game_players(id),
			badge_code VARCHAR(50) NOT NULL,
			name VARCHAR(100) NOT NULL,
			awarded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (player_id, badge_code)
		);

		CREATE TABLE IF NOT EXISTS design_missions (
			id VARCHAR(36) PRIMARY KEY,
			order_index INTEGER NOT NULL,
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			duration_minutes INTEGER NOT NULL DEFAULT 15,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			UNIQUE (order_index)
		);

		CREATE TABLE IF NOT EXISTS team_progress (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL REFERENCES game_sessions(id),
			team_name VARCHAR(100) NOT NULL,
			mission_id VARCHAR(36) NOT NULL REFERENCES design_missions(id),
			started_at TIMESTAMP,
			completed_at TIMESTAMP,
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (session_id, team_name, mission_id)
		);
		CREATE INDEX IF NOT EXISTS idx_team_progress_session ON team_progress(session_id);

		CREATE TABLE IF NOT EXISTS quest_levels (
			id VARCHAR(36) PRIMARY KEY,
			order_index INTEGER NOT NULL,
			name VARCHAR(100) NOT NULL,
			prompt TEXT NOT NULL DEFAULT '',
			rubric JSONB NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			UNIQUE (order_index)
		);

		CREATE TABLE IF NOT EXISTS level_responses (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL REFERENCES game_sessions(id),
			team_name VARCHAR(100) NOT NULL,
			level_id VARCHAR(36) NOT NULL REFERENCES quest_levels(id),
			answers JSONB NOT NULL DEFAULT '{}',
			score INTEGER NOT NULL DEFAULT 0,
			artifact_key VARCHAR(255) NOT NULL DEFAULT '',
			submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (session_id, team_name, level_id)
		);
		CREATE INDEX IF NOT EXISTS idx_level_responses_session ON level_responses(session_id);

		CREATE TABLE IF NOT EXISTS article_categories (
			id VARCHAR(36) PRIMARY KEY,
			slug VARCHAR(100) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS articles (
			id VARCHAR(36) PRIMARY KEY,
			category_id VARCHAR(36) REFERENCES article_categories(id),
			slug VARCHAR(200) NOT NULL UNIQUE,
			title VARCHAR(200) NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			view_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(is_published, created_at);

		CREATE TABLE IF NOT EXISTS article_comments (
			id VARCHAR(36) PRIMARY KEY,
			article_id VARCHAR(36) NOT NULL REFERENCES articles(id),
			author_name VARCHAR(100) NOT NULL,
			author_session_id VARCHAR(64) NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_article_comments_article ON article_comments(article_id, created_at);

		CREATE TABLE IF NOT EXISTS article_likes (
			article_id VARCHAR(36) NOT NULL REFERENCES articles(id),
			session_key VARCHAR(64) NOT NULL,
			client_ip VARCHAR(45) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (article_id, session_key)
		);

		CREATE TABLE IF NOT EXISTS article_shares (
			id VARCHAR(36) PRIMARY KEY,
			article_id VARCHAR(36) NOT NULL REFERENCES articles(id),
			platform VARCHAR(50) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS demo_requests (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			school VARCHAR(200) NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS school_demo_requests (
			id VARCHAR(36) PRIMARY KEY,
			school_name VARCHAR(200) NOT NULL,
			contact_person VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(20) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL,
			student_count INTEGER NOT NULL DEFAULT 0,
			interested_products JSONB NOT NULL DEFAULT '[]',
			additional_requirements TEXT NOT NULL DEFAULT '',
			preferred_demo_time VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			type VARCHAR(50) NOT NULL,
			title VARCHAR(200) NOT NULL,
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at);
	`

	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

package store

// Schemas are applied statement by statement on every start. Timestamps are
// native in Postgres and fixed-width UTC text in SQLite.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS topics (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    name TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    image_url TEXT,
    difficulty TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    distractors TEXT NOT NULL,
    explanation TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic_id)`,
	`CREATE TABLE IF NOT EXISTS exams (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    kind TEXT NOT NULL,
    duration_minutes INTEGER NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    created_by TEXT,
    created_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS exam_questions (
    exam_id TEXT NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES questions(id),
    position INTEGER NOT NULL,
    PRIMARY KEY (exam_id, question_id)
)`,
	`CREATE TABLE IF NOT EXISTS attempts (
    id TEXT PRIMARY KEY,
    exam_id TEXT NOT NULL REFERENCES exams(id),
    user_id TEXT NOT NULL,
    status TEXT NOT NULL,
    started_at TEXT NOT NULL,
    completed_at TEXT,
    score INTEGER,
    percentage REAL,
    correct_count INTEGER,
    incorrect_count INTEGER,
    omitted_count INTEGER
)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, status)`,
	`CREATE TABLE IF NOT EXISTS attempt_drafts (
    attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL,
    selected TEXT,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (attempt_id, question_id)
)`,
	`CREATE TABLE IF NOT EXISTS answers (
    attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES questions(id),
    selected TEXT,
    is_correct INTEGER NOT NULL,
    PRIMARY KEY (attempt_id, question_id)
)`,
	`CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL DEFAULT '',
    is_premium INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS ai_explanations (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    question_id TEXT NOT NULL REFERENCES questions(id),
    attempt_id TEXT,
    selected_answer TEXT NOT NULL,
    ai_response TEXT NOT NULL,
    model TEXT NOT NULL,
    prompt_tokens INTEGER NOT NULL,
    completion_tokens INTEGER NOT NULL,
    total_cost REAL NOT NULL,
    created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_explanations_lookup ON ai_explanations(question_id, selected_answer)`,
	`CREATE TABLE IF NOT EXISTS ai_usage_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    feature TEXT NOT NULL,
    model TEXT NOT NULL,
    prompt_tokens INTEGER NOT NULL,
    completion_tokens INTEGER NOT NULL,
    total_cost REAL NOT NULL,
    created_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    plan TEXT NOT NULL,
    status TEXT NOT NULL,
    buy_order TEXT NOT NULL UNIQUE,
    token TEXT NOT NULL DEFAULT '',
    amount INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    expires_at TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_token ON subscriptions(token)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS topics (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    name TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    image_url TEXT,
    difficulty TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    distractors TEXT NOT NULL,
    explanation TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic_id)`,
	`CREATE TABLE IF NOT EXISTS exams (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    kind TEXT NOT NULL,
    duration_minutes INTEGER NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_by TEXT,
    created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS exam_questions (
    exam_id TEXT NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES questions(id),
    position INTEGER NOT NULL,
    PRIMARY KEY (exam_id, question_id)
)`,
	`CREATE TABLE IF NOT EXISTS attempts (
    id TEXT PRIMARY KEY,
    exam_id TEXT NOT NULL REFERENCES exams(id),
    user_id TEXT NOT NULL,
    status TEXT NOT NULL,
    started_at TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ,
    score INTEGER,
    percentage DOUBLE PRECISION,
    correct_count INTEGER,
    incorrect_count INTEGER,
    omitted_count INTEGER
)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, status)`,
	`CREATE TABLE IF NOT EXISTS attempt_drafts (
    attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL,
    selected TEXT,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (attempt_id, question_id)
)`,
	`CREATE TABLE IF NOT EXISTS answers (
    attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES questions(id),
    selected TEXT,
    is_correct BOOLEAN NOT NULL,
    PRIMARY KEY (attempt_id, question_id)
)`,
	`CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL DEFAULT '',
    is_premium BOOLEAN NOT NULL DEFAULT FALSE
)`,
	`CREATE TABLE IF NOT EXISTS ai_explanations (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    question_id TEXT NOT NULL REFERENCES questions(id),
    attempt_id TEXT,
    selected_answer TEXT NOT NULL,
    ai_response TEXT NOT NULL,
    model TEXT NOT NULL,
    prompt_tokens INTEGER NOT NULL,
    completion_tokens INTEGER NOT NULL,
    total_cost DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_explanations_lookup ON ai_explanations(question_id, selected_answer)`,
	`CREATE TABLE IF NOT EXISTS ai_usage_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    feature TEXT NOT NULL,
    model TEXT NOT NULL,
    prompt_tokens INTEGER NOT NULL,
    completion_tokens INTEGER NOT NULL,
    total_cost DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    plan TEXT NOT NULL,
    status TEXT NOT NULL,
    buy_order TEXT NOT NULL UNIQUE,
    token TEXT NOT NULL DEFAULT '',
    amount INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ
)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_token ON subscriptions(token)`,
}

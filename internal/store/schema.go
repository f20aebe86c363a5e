package store

// schema defines every table the store persists. One table per entity
// kind, plus child tables for definitions, examples, the three relation
// kinds, forms, pronunciations, tags, counts, syntactic behaviours (+
// junction), proposed ILIs, lexicon dependencies/extensions, and history.
//
// Foreign keys reference surrogate row keys (rowid-backed "key" columns),
// never public ids directly, so that the same public id can exist in
// multiple lexicons without ambiguity. Public lookups always resolve
// through (public_id, lexicon_key) to the surrogate first.
const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	schema_version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lexicons (
	lexicon_key INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	version TEXT NOT NULL,
	label TEXT NOT NULL,
	language TEXT NOT NULL,
	email TEXT,
	license TEXT,
	url TEXT,
	citation TEXT,
	logo TEXT,
	metadata TEXT,
	UNIQUE (id)
);

CREATE TABLE IF NOT EXISTS lexicon_refs (
	lexicon_key INTEGER NOT NULL REFERENCES lexicons(lexicon_key),
	kind TEXT NOT NULL CHECK (kind IN ('requires','extends')),
	ref_id TEXT NOT NULL,
	ref_version TEXT,
	ref_url TEXT
);

CREATE TABLE IF NOT EXISTS ili (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	definition TEXT
);

CREATE TABLE IF NOT EXISTS synsets (
	synset_key INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	lexicon_key INTEGER NOT NULL REFERENCES lexicons(lexicon_key),
	part_of_speech TEXT NOT NULL,
	ili TEXT,
	lexfile TEXT,
	lexicalized INTEGER NOT NULL DEFAULT 0,
	metadata TEXT,
	UNIQUE (id, lexicon_key)
);
CREATE INDEX IF NOT EXISTS idx_synsets_lexicon ON synsets(lexicon_key);

CREATE TABLE IF NOT EXISTS proposed_ili (
	synset_key INTEGER PRIMARY KEY REFERENCES synsets(synset_key),
	definition TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS definitions (
	definition_id INTEGER PRIMARY KEY AUTOINCREMENT,
	synset_key INTEGER NOT NULL REFERENCES synsets(synset_key),
	text TEXT NOT NULL,
	language TEXT,
	source_sense_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_definitions_synset ON definitions(synset_key);

CREATE TABLE IF NOT EXISTS examples (
	example_id INTEGER PRIMARY KEY AUTOINCREMENT,
	synset_key INTEGER REFERENCES synsets(synset_key),
	sense_key INTEGER,
	text TEXT NOT NULL,
	language TEXT
);
CREATE INDEX IF NOT EXISTS idx_examples_synset ON examples(synset_key);
CREATE INDEX IF NOT EXISTS idx_examples_sense ON examples(sense_key);

CREATE TABLE IF NOT EXISTS entries (
	entry_key INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	lexicon_key INTEGER NOT NULL REFERENCES lexicons(lexicon_key),
	part_of_speech TEXT NOT NULL,
	index_form TEXT,
	UNIQUE (id, lexicon_key)
);
CREATE INDEX IF NOT EXISTS idx_entries_lexicon ON entries(lexicon_key);

CREATE TABLE IF NOT EXISTS forms (
	form_key INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT,
	entry_key INTEGER NOT NULL REFERENCES entries(entry_key),
	written TEXT NOT NULL,
	script TEXT,
	rank INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_forms_entry ON forms(entry_key);

CREATE TABLE IF NOT EXISTS pronunciations (
	pronunciation_id INTEGER PRIMARY KEY AUTOINCREMENT,
	form_key INTEGER NOT NULL REFERENCES forms(form_key),
	value TEXT NOT NULL,
	variety TEXT,
	notation TEXT,
	phonemic INTEGER NOT NULL DEFAULT 0,
	audio TEXT
);
CREATE INDEX IF NOT EXISTS idx_pronunciations_form ON pronunciations(form_key);

CREATE TABLE IF NOT EXISTS tags (
	tag_id INTEGER PRIMARY KEY AUTOINCREMENT,
	form_key INTEGER NOT NULL REFERENCES forms(form_key),
	category TEXT NOT NULL,
	text TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tags_form ON tags(form_key);

CREATE TABLE IF NOT EXISTS senses (
	sense_key INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	lexicon_key INTEGER NOT NULL REFERENCES lexicons(lexicon_key),
	entry_key INTEGER NOT NULL REFERENCES entries(entry_key),
	synset_key INTEGER NOT NULL REFERENCES synsets(synset_key),
	entry_rank INTEGER NOT NULL,
	synset_rank INTEGER NOT NULL,
	lexicalized INTEGER NOT NULL DEFAULT 1,
	adjposition TEXT,
	metadata TEXT,
	UNIQUE (id, lexicon_key)
);
CREATE INDEX IF NOT EXISTS idx_senses_entry ON senses(entry_key);
CREATE INDEX IF NOT EXISTS idx_senses_synset ON senses(synset_key);

CREATE TABLE IF NOT EXISTS counts (
	count_id INTEGER PRIMARY KEY AUTOINCREMENT,
	sense_key INTEGER NOT NULL REFERENCES senses(sense_key),
	value INTEGER NOT NULL,
	metadata TEXT
);
CREATE INDEX IF NOT EXISTS idx_counts_sense ON counts(sense_key);

CREATE TABLE IF NOT EXISTS syntactic_behaviours (
	sb_key INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	lexicon_key INTEGER NOT NULL REFERENCES lexicons(lexicon_key),
	frame TEXT NOT NULL,
	UNIQUE (id, lexicon_key)
);

CREATE TABLE IF NOT EXISTS syntactic_behaviour_senses (
	sb_key INTEGER NOT NULL REFERENCES syntactic_behaviours(sb_key),
	sense_key INTEGER NOT NULL REFERENCES senses(sense_key),
	PRIMARY KEY (sb_key, sense_key)
);

CREATE TABLE IF NOT EXISTS synset_relations (
	source_key INTEGER NOT NULL REFERENCES synsets(synset_key),
	type TEXT NOT NULL,
	target_key INTEGER NOT NULL REFERENCES synsets(synset_key),
	metadata TEXT,
	PRIMARY KEY (source_key, type, target_key)
);
CREATE INDEX IF NOT EXISTS idx_synset_relations_target ON synset_relations(target_key);

CREATE TABLE IF NOT EXISTS sense_relations (
	source_key INTEGER NOT NULL REFERENCES senses(sense_key),
	type TEXT NOT NULL,
	target_key INTEGER NOT NULL REFERENCES senses(sense_key),
	metadata TEXT,
	PRIMARY KEY (source_key, type, target_key)
);
CREATE INDEX IF NOT EXISTS idx_sense_relations_target ON sense_relations(target_key);

CREATE TABLE IF NOT EXISTS sense_synset_relations (
	source_key INTEGER NOT NULL REFERENCES senses(sense_key),
	type TEXT NOT NULL,
	target_key INTEGER NOT NULL REFERENCES synsets(synset_key),
	metadata TEXT,
	PRIMARY KEY (source_key, type, target_key)
);
CREATE INDEX IF NOT EXISTS idx_sense_synset_relations_target ON sense_synset_relations(target_key);

CREATE TABLE IF NOT EXISTS history (
	record_id TEXT PRIMARY KEY,
	txn_id TEXT NOT NULL,
	entity_kind TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	field TEXT,
	op TEXT NOT NULL,
	prior_value TEXT,
	new_value TEXT,
	occurred_at TEXT NOT NULL,
	seq INTEGER
);
CREATE INDEX IF NOT EXISTS idx_history_entity ON history(entity_kind, entity_id);
CREATE INDEX IF NOT EXISTS idx_history_seq ON history(seq);
`

// CurrentSchemaVersion is the schema version this build of the store
// writes and expects to read.
const CurrentSchemaVersion = 1

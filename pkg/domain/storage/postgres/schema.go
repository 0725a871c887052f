package postgres

import (
	"context"

	kpool "github.com/molstud/moltrain/pkg/conn/db/postgres/pool"
)

// Bootstrap creates the schema when it is not there yet and seeds the
// shared catalogs (base models, datasets).
//
// Every statement is idempotent, so running it against an initialized
// database is harmless.
func Bootstrap(ctx context.Context, pool kpool.Pool) error {
	for _, sql := range []string{
		`
		create table if not exists "users" (
			"user_id" varchar(64) primary key,
			"name" varchar(128) not null
		);
		`,
		`
		create table if not exists "molecules" (
			"user_id" varchar(64) not null references "users" ("user_id") on delete cascade,
			"smiles" varchar(1024) not null,
			"name" varchar(128) not null,
			"cml" text not null,
			primary key ("user_id", "smiles")
		);
		`,
		`
		create table if not exists "analyses" (
			"user_id" varchar(64) not null,
			"smiles" varchar(1024) not null,
			"fitting_id" varchar(64) not null,
			"results" jsonb not null default '{}',
			primary key ("user_id", "smiles", "fitting_id"),
			foreign key ("user_id", "smiles")
				references "molecules" ("user_id", "smiles") on delete cascade
		);
		`,
		`
		create table if not exists "base_models" (
			"base_model_id" varchar(64) primary key,
			"name" varchar(128) not null,
			"kind" varchar(32) not null,
			"image_path" text not null default '',
			"loss_function" varchar(64) not null,
			"optimizer" varchar(64) not null,
			"parameters" jsonb not null default '{}',
			"metrics" jsonb not null default '[]'
		);
		`,
		`
		create table if not exists "datasets" (
			"dataset_id" varchar(64) primary key,
			"name" varchar(128) not null,
			"size" integer not null,
			"label_descriptors" jsonb not null default '[]'
		);
		`,
		`
		create table if not exists "dataset_histograms" (
			"dataset_id" varchar(64) not null references "datasets" ("dataset_id") on delete cascade,
			"label" varchar(64) not null,
			"bin_edges" jsonb not null,
			"buckets" jsonb not null,
			primary key ("dataset_id", "label")
		);
		`,
		`
		create table if not exists "models" (
			"model_id" varchar(64) primary key,
			"user_id" varchar(64) not null references "users" ("user_id") on delete cascade,
			"name" varchar(128) not null,
			"base_model_id" varchar(64) not null references "base_models" ("base_model_id"),
			"parameters" jsonb not null default '{}'
		);
		`,
		`
		create table if not exists "fittings" (
			"fitting_id" varchar(64) not null,
			"user_id" varchar(64) not null references "users" ("user_id") on delete cascade,
			"model_id" varchar(64) not null references "models" ("model_id") on delete cascade,
			"dataset_id" varchar(64) not null,
			"labels" jsonb not null default '[]',
			"epochs" integer not null,
			"batch_size" integer not null,
			"accuracy" double precision not null,
			primary key ("user_id", "fitting_id")
		);
		`,
		`
		create table if not exists "scoreboard" (
			"fitting_id" varchar(64) primary key,
			"user_id" varchar(64) not null references "users" ("user_id") on delete cascade,
			"username" varchar(128) not null,
			"model_name" varchar(128) not null,
			"dataset_id" varchar(64) not null,
			"labels" jsonb not null default '[]',
			"epochs" integer not null,
			"accuracy" double precision not null
		);
		`,
	} {
		if _, err := pool.Exec(ctx, sql); err != nil {
			return err
		}
	}
	return seed(ctx, pool)
}

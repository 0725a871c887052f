// domain package contains the Domain Models and Interfaces for the moltrain application.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/fitting.go` contains the `Fitting` entity.
//
// Subpackages hold the live machinery around those entities:
//
// - `domain/storage`: persistence of users, molecules, models, fittings, and
// datasets. `storage/postgres` is the RDB expression of it.
//
// - `domain/training`: admission and supervision of training jobs.
// At most one job runs per user; the job's worker drives a `training/engine`
// and reports progress back through notifications.
//
// - `domain/notify`: per-user ordered outbox of notification events,
// drained by the session reaper towards the live transport.
//
// - `domain/session`: the association between a connected client and a user.
// Tracks activity, owns the user's notification channel, and runs one reaper
// loop per session to deliver events and evict idle users.
//
// - `domain/chem`: chemistry-string validation and conversion.
//
// # Entities
//
// - `User`: an account created at login. All other user-scoped entities hang
// off its userId.
//
// - `Molecule`: a molecule added by a user, identified by its SMILES code,
// carrying analyses keyed by the fitting that produced them.
//
// - `ModelConfig`: a user's model configuration derived from a BaseModel.
//
// - `Fitting`: the persisted result of one training run (model + dataset +
// metrics), identified by a fittingId.
//
// - `TrainingJob`: one in-flight training run. Exists if and only if the
// supervisor reports training-running for its user.
//
// - `Event`: a tagged notification payload delivered to the user's client.
package domain

package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is raised when a referenced row is missing
	PgErrorCodeForeignKeyViolation = "23503"
	// PgErrorCodeInvalidTextRepresentation is raised for malformed UUID input
	PgErrorCodeInvalidTextRepresentation = "22P02"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
	ErrMsgFailedToCommit           = "failed to commit transaction"
)

// Error Messages - Reads
const (
	ErrMsgFailedToGetUser         = "failed to get user"
	ErrMsgFailedToGetItem         = "failed to get item"
	ErrMsgFailedToListItems       = "failed to list items"
	ErrMsgFailedToGetRecipe       = "failed to get recipe"
	ErrMsgFailedToListRecipes     = "failed to list recipes"
	ErrMsgFailedToGetPet          = "failed to get pet"
	ErrMsgFailedToListPets        = "failed to list pets"
	ErrMsgFailedToGetTiers        = "failed to get season tiers"
	ErrMsgFailedToGetSeason       = "failed to get season"
	ErrMsgFailedToGetUserPets     = "failed to get user pets"
	ErrMsgFailedToGetCraftingLogs = "failed to get crafting logs"
	ErrMsgFailedToGetProgress     = "failed to get season progress"
	ErrMsgFailedToGetInventory    = "failed to get inventory"
	ErrMsgFailedToCountPending    = "failed to count pending outbox events"
	ErrMsgFailedToPruneOutbox     = "failed to prune dispatched outbox events"
	ErrMsgFailedToLockPending     = "failed to lock pending outbox events"
	ErrMsgFailedToDecodeRow       = "failed to decode %s row"
)

// Error Messages - Writes
const (
	ErrMsgFailedToUpdateUser      = "failed to update user"
	ErrMsgFailedToUpdateInventory = "failed to update inventory"
	ErrMsgFailedToInsertLog       = "failed to insert crafting log"
	ErrMsgFailedToInsertUserPet   = "failed to insert user pet"
	ErrMsgFailedToUpdateUserPet   = "failed to update user pet"
	ErrMsgFailedToWriteProgress   = "failed to write season progress"
	ErrMsgFailedToWriteSeason     = "failed to write season"
	ErrMsgFailedToEnqueueEvent    = "failed to enqueue outbox event"
	ErrMsgFailedToMarkDispatched  = "failed to mark outbox events dispatched"
	ErrMsgFailedToInsertSinkRow   = "failed to insert %s row"
	ErrMsgFailedToUpsert          = "failed to upsert %s"
	ErrMsgFailedToEncodeColumn    = "failed to encode %s"
)

// Sink table names, used in error messages
const (
	sinkFeed         = "feed item"
	sinkActivity     = "activity"
	sinkNotification = "notification"
)

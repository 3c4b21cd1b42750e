package sys

const (
	// --- Infrastructure & Lifecycle ---
	MsgConfigFailedToLoad       = "Failed to load config: %v"
	MsgConfigMissingToken       = "DISCORD_TOKEN is not set in .env file"
	MsgDatabaseInitSuccess      = "Database initialized successfully (%s)"
	MsgDatabaseTableError       = "Failed to create table: %w"
	MsgDatabasePragmaError      = "Failed to set pragma %s: %w"
	MsgDatabaseBadReminderOwner = "Failed to parse user ID '%s' for reminder %d: %v"
	MsgDaemonStarting           = "Starting..."
	MsgBotStarting              = "Starting %s..."
	MsgBotReady                 = "%s is ready! (ID: %s) (PID: %d) (Took: %dms)"
	MsgBotShutdown              = "Shutting down %s..."
	MsgBotKillingOld            = "Killing running instance... (PID: %d)"
	MsgBotOldTerminated         = "Old instance terminated."
	MsgBotRegisterFail          = "Command registration failed: %v"
	MsgBotLogFile               = "Writing logs to %s"
	MsgGenericError             = "%v"

	// --- Command Loader & Registry ---
	MsgLoaderSyncCommands       = "Syncing %s commands..."
	MsgLoaderUpToDate           = "Commands are up to date. (Hash: %s)"
	MsgLoaderCleanup            = "[CLEANUP] Removing commands from previous dev guild: %s"
	MsgLoaderDevStarting        = "[DEV] Registering commands to guild: %s"
	MsgLoaderDevRegistered      = "[DEV] Registered: %s"
	MsgLoaderDevFail            = "[DEV] Registration failed: %v"
	MsgLoaderDevGlobalClear     = "[DEV] Verifying global commands are cleared..."
	MsgLoaderDevGlobalClearFail = "[DEV] Global clear skipped (likely rate limited): %v"
	MsgLoaderProdStarting       = "[PROD] Registering commands globally..."
	MsgLoaderProdRegistered     = "[PROD] Registered: %s"
	MsgLoaderProdFail           = "[PROD] Global registration failed: %w"
	MsgLoaderPanicRecovered     = "Panic recovered in handler: %v"
	MsgLoaderRespondError       = "Failed to respond to interaction: %v"

	// --- Shared user-facing ---
	ErrGuildOnly       = "This command can only be used in a server."
	ErrMissingManage   = "You need the **Manage Server** permission to do that."
	ErrOwnerOnly       = "Only the bot owner can do that."
	ErrSomethingBroken = "Something went wrong. Please try again later."

	// --- Reminder System ---
	MsgReminderFailedToQueryDue    = "Failed to query due reminders: %v"
	MsgReminderFailedToCreateDM    = "Failed to create DM channel for user %s: %v"
	MsgReminderUnreachable         = "Cannot send DM to user %s for reminder %d (DMs closed)"
	MsgReminderFailedToSend        = "Failed to send reminder %d: %v"
	MsgReminderFailedToDeleteBatch = "Failed to delete %d due reminders: %v"
	MsgReminderSent                = "Sent reminder %d to user %s"
	MsgReminderTick                = "Tick: %d due, %d delivered, %d failed, %d deferred, %d deleted"
	MsgReminderTickInterrupted     = "Tick interrupted, leaving %d reminders for the next run: %v"
	MsgReminderMalformed           = "Dropping reminder %d: stored owner is not a valid user ID"
	MsgReminderFailedToSave        = "Failed to save reminder for user %s: %v"
	MsgReminderFailedToDeleteAll   = "Failed to delete all reminders for user %s: %v"
	MsgReminderFailedToDelete      = "Failed to delete reminder %d for user %s: %v"
	MsgReminderFailedToQuery       = "Failed to query reminders for user %s: %v"
	MsgReminderAutocompleteFailed  = "Failed to query reminders for autocomplete: %v"
	MsgReminderNaturalTimeInitFail = "Failed to initialize naturaltime parser: %v"
	MsgReminderRejected            = "Rejected %q from user %s: %s"
	MsgReminderShutdown            = "Shutting down Reminder System..."

	ErrReminderParseFailed    = "Try formats like `5 minutes`, `1 hr 30 min`, `2025-12-25 09:00`, `friday 6pm`, `9 PM` or `next friday at noon`."
	ErrReminderSubjectTooLong = "The reminder subject can be at most %d characters."
	ErrReminderSubjectEmpty   = "Tell me what to remind you about."
	ErrReminderSaveFailed     = "Failed to save reminder. Please try again."
	ErrReminderFetchFailed    = "Failed to retrieve your reminders."
	ErrReminderDismissFailed  = "That reminder doesn't exist or isn't yours."
	ErrReminderExpired        = "That time has already passed. Run `/reminder remindme` again."
	ErrReminderTooLong        = "That reminder is too long to confirm. Try a shorter subject."
	MsgReminderConfirmPrompt  = "Remind you about **%s** <t:%d:F> (<t:%d:R>)?"
	MsgReminderConfirmed      = "Alright %s, I'll remind you about **%s** <t:%d:R>."
	MsgReminderCancelled      = "Reminder cancelled."
	MsgReminderNoActive       = "You have no active reminders. Set one with `/reminder remindme`!"
	MsgReminderNothingToClear = "You don't have any reminders to clear."
	MsgReminderCleared        = "Successfully cleared **%d** active reminder(s)."
	MsgReminderDismissed      = "Reminder dismissed!"
	MsgReminderListHeader     = "**Your Reminders** (%d active)\n\n"
	MsgReminderListItem       = "`#%d` **%s** <t:%d:R>\n"
	MsgReminderListZone       = "\n-# Times shown in your zone: %s"
	MsgReminderDelivery       = "Hey <@%s>, you asked to be reminded of **%s** <t:%d:R>"
	MsgReminderDeliveryTitle  = "## ⏰ Reminder"
	MsgReminderConfirmButton  = "Confirm"
	MsgReminderCancelButton   = "Cancel"
	MsgReminderChoiceLabel    = "#%d %s (%s)"

	// --- Status Rotator ---
	MsgStatusRotated    = "Status set to: %s"
	MsgStatusUpdateFail = "Failed to update status: %v"
	MsgStatusShutdown   = "Shutting down Status Rotator..."

	// --- Timezones ---
	MsgTimezoneFailedToLoad = "Failed to load timezone for user %s: %v"
	MsgTimezoneFailedToSave = "Failed to save timezone for user %s: %v"
	MsgTimezoneStoredBroken = "Stored timezone %q for user %s no longer loads, using UTC: %v"
	MsgTimezoneSet          = "Your timezone is now **%s** (local time %s)."
	MsgTimezoneShow         = "Your timezone is **%s** (local time %s)."
	MsgTimezoneReset        = "Your timezone was reset to **UTC**."
	ErrTimezoneInvalid      = "`%s` is not a valid IANA timezone. Try something like `Europe/Berlin` or `America/New_York`."

	// --- Autoreplies ---
	MsgAutoreplyFailed       = "Autoreply %s failed for guild %s: %v"
	MsgAutoreplyFailedReply  = "Failed to send autoreply in channel %s: %v"
	MsgAutoreplyAdded        = "✅ Added a new autoreply with trigger: `%s`"
	MsgAutoreplyUpdated      = "✅ Successfully updated the autoreply:\nTrigger: `%s`\nNew reply: `%s`"
	MsgAutoreplyRemoved      = "✅ Successfully removed the autoreply for trigger: `%s`"
	MsgAutoreplyCleared      = "✅ Successfully cleared **%d** autoreplies for this server."
	MsgAutoreplyListHeader   = "**Autoreplies in this server:**\n\n"
	MsgAutoreplyNoneToClear  = "No autoreplies were found to clear."
	MsgAutoreplyNone         = "No autoreplies were set for this server."
	ErrAutoreplySpecialChar  = "The trigger message can't begin with a special character."
	ErrAutoreplyDuplicate    = "An autoreply for `%s` already exists. Use `/autoreply update` instead."
	ErrAutoreplyMissing      = "No such trigger was found."
	ErrAutoreplyEmpty        = "Triggers and replies can't be empty."
	ErrAutoreplyActionFailed = "Error updating autoreplies."

	// --- Prefixes ---
	MsgPrefixFailed     = "Prefix lookup failed for guild %s: %v"
	MsgPrefixSet        = "Prefix for this server set to `%s`"
	MsgPrefixShow       = "My prefix in this server is `%s`"
	MsgPrefixMention    = "My prefix in this server is `%s`. Slash commands work too: try `/reminder remindme`."
	MsgPrefixPong       = "Pong! 🏓 %dms"
	MsgPing             = "Pong! 🏓 Roundtrip: **%dms** | Gateway: **%dms**"
	MsgPrefixStats      = "%d pending reminder(s) across all users."
	ErrPrefixTooLong    = "The prefix can be at most %d characters."
	ErrPrefixSaveFailed = "Failed to save the prefix."

	// --- General ---
	MsgGeneralFailed      = "%s failed in guild %s: %v"
	MsgSent               = "✅ Sent!"
	ErrSayForbidden       = "I don't have permission to send messages in that channel."
	ErrSendFailed         = "❌ Failed to send the message."
	ErrDMSelfBot          = "I can't DM myself, silly!"
	ErrDMSelf             = "You can't DM yourself man, do you need a hug?"
	ErrDMBot              = "You can't DM a bot."
	ErrDMNotMember        = "That user isn't a member of this server."
	ErrDMAnonymousDenied  = "You don't have permission to send anonymous messages. Please disable the anonymous option."
	ErrDMClosed           = "❌ That member doesn't accept direct messages."
	MsgDMTitle            = "## Message from %s"
	MsgDMTitleBy          = "## Message from %s by %s"
	MsgWhoisRoles         = "**Roles [%d]**\n%s"
	MsgWhoisJoined        = "**Joined** <t:%d:D>"
	MsgWhoisRegistered    = "**Registered** <t:%d:D>"
	MsgWhoisPermissions   = "**Key Permissions**\n%s"
	MsgWhoisAcknowledged  = "**Acknowledgements**\n%s"
	MsgWhoisFooter        = "-# ID: %s"
	MsgWhoisOwner         = "Server Owner"
	MsgWhoisAdmin         = "Server Admin"
	MsgAvatarTitle        = "## %s's avatar"
	MsgBannerTitle        = "## %s's banner"
	ErrNoBanner           = "That member doesn't have a banner."
	ErrBannerFailed       = "Failed to get the banner."
	MsgChoose             = "I choose **%s**"
	ErrChooseNeedsOptions = "Give me at least two things to choose from."

	// --- Moderation ---
	MsgModerationFailed    = "%s failed in guild %s: %v"
	MsgModerationDone      = "%s **%s**. Reason: **%s**"
	MsgModerationNoReason  = "None"
	MsgModerationKicked    = "Kicked"
	MsgModerationBanned    = "Banned"
	MsgModerationUnbanned  = "Unbanned"
	ErrModerationSelfBot   = "No, I'm not doing that to myself."
	ErrModerationSelf      = "You can't do that to yourself."
	ErrModerationOwner     = "You can not do that to the server owner."
	ErrModerationNoMember  = "That user isn't a member of this server."
	ErrModerationMissing   = "You need the **%s** permission to do that."
	ErrModerationForbidden = "I don't have permission to do that to this user."
	ErrModerationFailed    = "I couldn't complete that action. Please try again later."
	ErrNotBanned           = "That user is not banned."
	MsgBanlistEmpty        = "No one is banned."
	MsgBanlistTitle        = "## Ban List"
	MsgBanlistEntry        = "**%s**\nID: `%s`\nReason: %s"
	MsgBanlistFooter       = "-# Page %d/%d · Requested by %s"
	ErrBanlistNotYours     = "Only the member who asked for this list can page through it."
	MsgPurgeDone           = "✅ Deleted %d message(s)."
	MsgPurgeSkippedOld     = "\n-# Messages older than 14 days can't be bulk deleted and were left alone."
	ErrPurgeForbidden      = "Error, I couldn't delete the messages, no permissions."

	// --- Games ---
	MsgGameLookupFailed = "Game lookup for %q failed: %v"
	MsgGamePlatforms    = "🎮 **Platforms:** %s"
	MsgGameReleased     = "🗓️ **Release Date:** %s"
	MsgGameDevelopers   = "👨🏻‍💻 **Developers:** %s"
	MsgGamePublishers   = "🏢 **Publishers:** %s"
	MsgGameGenres       = "🎭 **Genres:** %s"
	MsgGameRating       = "⭐ **Rating:** %s"
	MsgGameMetacritic   = "**Metacritic:** %s"
	MsgGameUnknown      = "N/A"
	ErrGameNotFound     = "❌ No results found. Please make sure you spelled the game title correctly, and the name is in English."
	ErrGameFetch        = "❌ Error fetching game data. Please try again later."
	ErrGameNotEnabled   = "Game lookups aren't configured on this bot."
)

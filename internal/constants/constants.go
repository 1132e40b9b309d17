package constants

const (
	SessionStatusWaiting    = "waiting"
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusAbandoned  = "abandoned"
)

const (
	GameTypeCyberCity      = "cyber_city"
	GameTypeConstitution   = "constitution"
	GameTypeClimate        = "climate"
	GameTypeDesignThinking = "design_thinking"
	GameTypeQuestCIQ       = "quest_ciq"
	GameTypeRoboticBuddy   = "robotic_buddy"
)

const (
	ChallengeKindSecurity     = "security"
	ChallengeKindCyberbully   = "cyberbully"
	ChallengeKindConstitution = "constitution"
	ChallengeKindClimate      = "climate"
	ChallengeKindTraining     = "training"
)

const (
	ActionJoined = "joined"
	ActionLeft   = "left"
)

const (
	DesignMissionCount = 6
	QuestLevelCount    = 5
)

const (
	QueueDemoRequested    = "demo.requested"
	QueueSessionCompleted = "session.completed"
)

package catalog

import "github.com/dukex/flowmender/pkg/models"

// Node type categories of the built-in catalog.
const (
	CategoryTrigger       = "trigger"
	CategoryCore          = "core"
	CategoryFlow          = "flow"
	CategoryTransform     = "transform"
	CategoryFiles         = "files"
	CategoryCommunication = "communication"
	CategoryData          = "data"
	CategoryDeveloper     = "developer"
	CategoryProductivity  = "productivity"
	CategoryAI            = "ai"
)

type typeGroup struct {
	category string
	types    []string
}

// Namespaces of the built-in node types.
const (
	BaseNamespace      = "n8n-nodes-base."
	LangChainNamespace = "@n8n/n8n-nodes-langchain."

	base      = BaseNamespace
	langchain = LangChainNamespace
)

var defaultTypes = []typeGroup{
	{CategoryTrigger, prefixed(base,
		"manualTrigger", "scheduleTrigger", "webhook", "formTrigger", "emailReadImap",
		"errorTrigger", "executeWorkflowTrigger", "n8nTrigger", "rssFeedReadTrigger",
		"localFileTrigger", "githubTrigger", "slackTrigger", "telegramTrigger",
		"googleSheetsTrigger", "gmailTrigger", "stripeTrigger", "airtableTrigger",
	)},
	{CategoryCore, prefixed(base,
		"httpRequest", "code", "executeCommand", "executeWorkflow", "respondToWebhook",
		"noOp", "wait", "stickyNote", "stopAndError", "debugHelper",
	)},
	{CategoryFlow, prefixed(base,
		"if", "switch", "merge", "filter", "splitInBatches", "compareDatasets",
	)},
	{CategoryTransform, prefixed(base,
		"set", "splitOut", "aggregate", "summarize", "sort", "limit", "removeDuplicates",
		"renameKeys", "dateTime", "crypto", "html", "markdown", "xml", "itemLists",
	)},
	{CategoryFiles, prefixed(base,
		"readWriteFile", "convertToFile", "extractFromFile", "compression", "editImage", "ftp",
	)},
	{CategoryCommunication, prefixed(base,
		"slack", "telegram", "discord", "gmail", "emailSend", "microsoftTeams", "mattermost",
		"twilio", "whatsApp",
	)},
	{CategoryData, prefixed(base,
		"postgres", "mySql", "mongoDb", "redis", "googleSheets", "airtable", "supabase",
		"microsoftSql", "elasticsearch", "awsS3",
	)},
	{CategoryDeveloper, prefixed(base,
		"github", "gitlab", "jira", "graphql", "ssh", "stripe",
	)},
	{CategoryProductivity, prefixed(base,
		"notion", "googleDrive", "googleCalendar", "googleDocs", "trello", "asana", "todoist",
	)},
	{CategoryAI, append(prefixed(base, "openAi"), prefixed(langchain,
		"agent", "chainLlm", "openAi", "lmChatOpenAi", "lmChatAnthropic", "memoryBufferWindow",
		"toolCode", "toolHttpRequest", "textClassifier", "informationExtractor",
	)...)},
}

var httpMethods = []string{"DELETE", "GET", "HEAD", "OPTIONS", "PATCH", "POST", "PUT"}

type contractEntry struct {
	nodeType string
	contract models.NodeTypeContract
}

var defaultContracts = []contractEntry{
	{base + "manualTrigger", models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true}},
	{base + "scheduleTrigger", models.NodeTypeContract{
		Category:           CategoryTrigger,
		EntryPoint:         true,
		RequiredParameters: []string{"rule"},
		ParameterTypes:     map[string]models.PrimitiveType{"rule": models.PrimitiveObject},
	}},
	{base + "webhook", models.NodeTypeContract{
		Category:            CategoryTrigger,
		EntryPoint:          true,
		RequiredParameters:  []string{"httpMethod", "path"},
		ParameterTypes:      map[string]models.PrimitiveType{"httpMethod": models.PrimitiveString, "path": models.PrimitiveString, "options": models.PrimitiveObject},
		SupportedOperations: httpMethods,
		OperationParameter:  "httpMethod",
	}},
	{base + "formTrigger", models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true}},
	{base + "errorTrigger", models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true}},
	{base + "executeWorkflowTrigger", models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true}},
	{base + "emailReadImap", models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true, RequiredCredentialTypes: []string{"imap"}}},
	{base + "githubTrigger", models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true, RequiredCredentialTypes: []string{"githubApi"}}},
	{base + "slackTrigger", models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true, RequiredCredentialTypes: []string{"slackApi"}}},
	{base + "telegramTrigger", models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true, RequiredCredentialTypes: []string{"telegramApi"}}},
	{base + "stripeTrigger", models.NodeTypeContract{Category: CategoryTrigger, EntryPoint: true, RequiredCredentialTypes: []string{"stripeApi"}}},

	{base + "httpRequest", models.NodeTypeContract{
		Category:           CategoryCore,
		RequiredParameters: []string{"method", "url"},
		ParameterTypes: map[string]models.PrimitiveType{
			"method": models.PrimitiveString, "url": models.PrimitiveString,
			"authentication": models.PrimitiveString, "sendBody": models.PrimitiveBoolean,
			"sendHeaders": models.PrimitiveBoolean, "sendQuery": models.PrimitiveBoolean,
			"options": models.PrimitiveObject,
		},
		SupportedOperations: httpMethods,
		OperationParameter:  "method",
	}},
	{base + "code", models.NodeTypeContract{
		Category: CategoryCore,
		ParameterTypes: map[string]models.PrimitiveType{
			"jsCode": models.PrimitiveString, "pythonCode": models.PrimitiveString,
			"language": models.PrimitiveString, "mode": models.PrimitiveString,
		},
		SupportedOperations: []string{"runOnceForAllItems", "runOnceForEachItem"},
		OperationParameter:  "mode",
	}},
	{base + "executeCommand", models.NodeTypeContract{
		Category:           CategoryCore,
		RequiredParameters: []string{"command"},
		ParameterTypes:     map[string]models.PrimitiveType{"command": models.PrimitiveString},
	}},
	{base + "wait", models.NodeTypeContract{
		Category:       CategoryCore,
		ParameterTypes: map[string]models.PrimitiveType{"amount": models.PrimitiveNumber, "unit": models.PrimitiveString},
	}},
	{base + "stickyNote", models.NodeTypeContract{Category: CategoryCore, Detached: true}},

	{base + "if", models.NodeTypeContract{
		Category:           CategoryFlow,
		RequiredParameters: []string{"conditions"},
		ParameterTypes:     map[string]models.PrimitiveType{"conditions": models.PrimitiveObject},
	}},
	{base + "switch", models.NodeTypeContract{
		Category:            CategoryFlow,
		ParameterTypes:      map[string]models.PrimitiveType{"mode": models.PrimitiveString, "rules": models.PrimitiveObject},
		SupportedOperations: []string{"rules", "expression"},
		OperationParameter:  "mode",
	}},
	{base + "merge", models.NodeTypeContract{
		Category:            CategoryFlow,
		ParameterTypes:      map[string]models.PrimitiveType{"mode": models.PrimitiveString},
		SupportedOperations: []string{"append", "combine", "combineByFields", "combineByPosition", "chooseBranch", "combineBySql"},
		OperationParameter:  "mode",
	}},
	{base + "splitInBatches", models.NodeTypeContract{
		Category:       CategoryFlow,
		ParameterTypes: map[string]models.PrimitiveType{"batchSize": models.PrimitiveNumber},
	}},

	{base + "set", models.NodeTypeContract{
		Category: CategoryTransform,
		ParameterTypes: map[string]models.PrimitiveType{
			"mode": models.PrimitiveString, "assignments": models.PrimitiveObject,
			"includeOtherFields": models.PrimitiveBoolean,
		},
		SupportedOperations: []string{"manual", "raw"},
		OperationParameter:  "mode",
	}},
	{base + "splitOut", models.NodeTypeContract{
		Category:           CategoryTransform,
		RequiredParameters: []string{"fieldToSplitOut"},
		ParameterTypes:     map[string]models.PrimitiveType{"fieldToSplitOut": models.PrimitiveString},
	}},
	{base + "limit", models.NodeTypeContract{
		Category:       CategoryTransform,
		ParameterTypes: map[string]models.PrimitiveType{"maxItems": models.PrimitiveNumber},
	}},

	{base + "readWriteFile", models.NodeTypeContract{
		Category:            CategoryFiles,
		ParameterTypes:      map[string]models.PrimitiveType{"fileSelector": models.PrimitiveString, "fileName": models.PrimitiveString},
		SupportedOperations: []string{"read", "write"},
	}},
	{base + "convertToFile", models.NodeTypeContract{
		Category:            CategoryFiles,
		SupportedOperations: []string{"csv", "html", "iCal", "ods", "rtf", "toBinary", "toJson", "toText", "xls", "xlsx"},
	}},

	{base + "slack", models.NodeTypeContract{
		Category:                CategoryCommunication,
		ParameterTypes:          map[string]models.PrimitiveType{"resource": models.PrimitiveString, "operation": models.PrimitiveString, "text": models.PrimitiveString},
		SupportedOperations:     []string{"archive", "create", "delete", "get", "getAll", "getPermalink", "invite", "post", "search", "update"},
		RequiredCredentialTypes: []string{"slackApi"},
	}},
	{base + "telegram", models.NodeTypeContract{
		Category:                CategoryCommunication,
		RequiredParameters:      []string{"chatId"},
		ParameterTypes:          map[string]models.PrimitiveType{"chatId": models.PrimitiveString, "text": models.PrimitiveString},
		SupportedOperations:     []string{"deleteMessage", "editMessageText", "sendAnimation", "sendAudio", "sendChatAction", "sendDocument", "sendLocation", "sendMediaGroup", "sendMessage", "sendPhoto", "sendSticker", "sendVideo"},
		RequiredCredentialTypes: []string{"telegramApi"},
	}},
	{base + "discord", models.NodeTypeContract{
		Category:       CategoryCommunication,
		ParameterTypes: map[string]models.PrimitiveType{"guildId": models.PrimitiveString, "channelId": models.PrimitiveString, "content": models.PrimitiveString},
	}},
	{base + "gmail", models.NodeTypeContract{
		Category:                CategoryCommunication,
		ParameterTypes:          map[string]models.PrimitiveType{"sendTo": models.PrimitiveString, "subject": models.PrimitiveString, "message": models.PrimitiveString},
		SupportedOperations:     []string{"addLabels", "delete", "get", "getAll", "markAsRead", "markAsUnread", "removeLabels", "reply", "send", "sendAndWait"},
		RequiredCredentialTypes: []string{"gmailOAuth2"},
	}},
	{base + "emailSend", models.NodeTypeContract{
		Category:                CategoryCommunication,
		RequiredParameters:      []string{"fromEmail", "toEmail"},
		ParameterTypes:          map[string]models.PrimitiveType{"fromEmail": models.PrimitiveString, "toEmail": models.PrimitiveString, "subject": models.PrimitiveString},
		RequiredCredentialTypes: []string{"smtp"},
	}},

	{base + "postgres", models.NodeTypeContract{
		Category:                CategoryData,
		ParameterTypes:          map[string]models.PrimitiveType{"query": models.PrimitiveString, "table": models.PrimitiveAny, "schema": models.PrimitiveAny},
		SupportedOperations:     []string{"deleteTable", "executeQuery", "insert", "select", "update", "upsert"},
		RequiredCredentialTypes: []string{"postgres"},
	}},
	{base + "googleSheets", models.NodeTypeContract{
		Category:                CategoryData,
		ParameterTypes:          map[string]models.PrimitiveType{"documentId": models.PrimitiveAny, "sheetName": models.PrimitiveAny, "sheetId": models.PrimitiveString},
		SupportedOperations:     []string{"append", "appendOrUpdate", "clear", "create", "delete", "read", "remove", "update"},
		RequiredCredentialTypes: []string{"googleSheetsOAuth2Api"},
	}},
	{base + "airtable", models.NodeTypeContract{
		Category:                CategoryData,
		SupportedOperations:     []string{"append", "create", "delete", "deleteRecord", "get", "list", "read", "search", "update", "upsert"},
		RequiredCredentialTypes: []string{"airtableTokenApi"},
	}},
	{base + "awsS3", models.NodeTypeContract{
		Category:                CategoryData,
		ParameterTypes:          map[string]models.PrimitiveType{"bucketName": models.PrimitiveString, "fileName": models.PrimitiveString},
		SupportedOperations:     []string{"copy", "create", "delete", "download", "getAll", "search", "upload"},
		RequiredCredentialTypes: []string{"awsApi"},
	}},

	{base + "github", models.NodeTypeContract{
		Category:                CategoryDeveloper,
		ParameterTypes:          map[string]models.PrimitiveType{"owner": models.PrimitiveAny, "repository": models.PrimitiveAny},
		RequiredCredentialTypes: []string{"githubApi"},
	}},
	{base + "stripe", models.NodeTypeContract{
		Category:                CategoryDeveloper,
		RequiredCredentialTypes: []string{"stripeApi"},
	}},

	{base + "notion", models.NodeTypeContract{
		Category:                CategoryProductivity,
		RequiredCredentialTypes: []string{"notionApi"},
	}},

	{base + "openAi", models.NodeTypeContract{
		Category:                CategoryAI,
		RequiredCredentialTypes: []string{"openAiApi"},
	}},
	{langchain + "openAi", models.NodeTypeContract{
		Category:                CategoryAI,
		RequiredCredentialTypes: []string{"openAiApi"},
	}},
	{langchain + "lmChatOpenAi", models.NodeTypeContract{
		Category:                CategoryAI,
		ParameterTypes:          map[string]models.PrimitiveType{"model": models.PrimitiveAny, "options": models.PrimitiveObject},
		RequiredCredentialTypes: []string{"openAiApi"},
	}},
}

func prefixed(prefix string, names ...string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = prefix + name
	}

	return out
}

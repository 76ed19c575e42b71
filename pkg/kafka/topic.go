package kafka

// TopicPrefix namespaces every topic this service publishes to.
const TopicPrefix = "shophub"

// Topic builds a topic name of the form shophub.<aggregate>.<action>.
func Topic(aggregate, action string) string {
	return TopicPrefix + "." + aggregate + "." + action
}

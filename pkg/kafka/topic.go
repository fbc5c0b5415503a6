package kafka

// TopicPrefix namespaces every topic this module publishes to.
const TopicPrefix = "jobboard"

// Topic returns the topic name for a domain action, e.g. "jobboard.job.created".
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}

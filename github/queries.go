package github

// Query and mutation text. Page sizes are fixed: 100 for the org-level
// project list, 20 for project-scoped collections.

const organizationIDQuery = `
query($login: String!) {
  organization(login: $login) {
    id
    name
  }
}
`

const organizationProjectsQuery = `
query($organization: String!, $cursor: String) {
  organization(login: $organization) {
    projectsV2(first: 100, after: $cursor) {
      nodes {
        id
        title
        shortDescription
        closed
        public
        readme
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}
`

const projectFieldsQuery = `
query($id: ID!, $cursor: String) {
  node(id: $id) {
    ... on ProjectV2 {
      fields(first: 20, after: $cursor) {
        nodes {
          ... on ProjectV2Field {
            id
            name
            dataType
          }
          ... on ProjectV2IterationField {
            id
            name
            dataType
            configuration {
              iterations {
                id
                title
                startDate
                duration
              }
              completedIterations {
                id
                title
                startDate
                duration
              }
            }
          }
          ... on ProjectV2SingleSelectField {
            id
            name
            dataType
            options {
              id
              name
              color
              description
            }
          }
        }
        pageInfo {
          hasNextPage
          endCursor
        }
      }
    }
  }
}
`

const projectViewsQuery = `
query($id: ID!, $cursor: String) {
  node(id: $id) {
    ... on ProjectV2 {
      views(first: 20, after: $cursor) {
        nodes {
          id
          name
          number
          layout
          filter
          sortByFields(first: 20) {
            nodes {
              direction
              field {
                ... on ProjectV2Field {
                  id
                  name
                  dataType
                }
                ... on ProjectV2IterationField {
                  id
                  name
                  dataType
                }
                ... on ProjectV2SingleSelectField {
                  id
                  name
                  dataType
                }
              }
            }
          }
          groupByFields(first: 20) {
            nodes {
              ... on ProjectV2Field {
                id
                name
                dataType
              }
              ... on ProjectV2IterationField {
                id
                name
                dataType
              }
              ... on ProjectV2SingleSelectField {
                id
                name
                dataType
              }
            }
          }
          verticalGroupByFields(first: 20) {
            nodes {
              ... on ProjectV2Field {
                id
                name
                dataType
              }
              ... on ProjectV2IterationField {
                id
                name
                dataType
              }
              ... on ProjectV2SingleSelectField {
                id
                name
                dataType
              }
            }
          }
          fields(first: 20) {
            nodes {
              ... on ProjectV2Field {
                id
                name
                dataType
              }
              ... on ProjectV2IterationField {
                id
                name
                dataType
                configuration {
                  iterations {
                    id
                    title
                    startDate
                    duration
                  }
                }
              }
              ... on ProjectV2SingleSelectField {
                id
                name
                dataType
                options {
                  id
                  name
                  color
                  description
                }
              }
            }
          }
        }
        pageInfo {
          hasNextPage
          endCursor
        }
      }
    }
  }
}
`

const projectItemsQuery = `
query($id: ID!, $cursor: String) {
  node(id: $id) {
    ... on ProjectV2 {
      items(first: 20, after: $cursor) {
        nodes {
          id
          fieldValues(first: 8) {
            nodes {
              __typename
              ... on ProjectV2ItemFieldTextValue {
                text
                field {
                  ... on ProjectV2FieldCommon {
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldDateValue {
                date
                field {
                  ... on ProjectV2FieldCommon {
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldSingleSelectValue {
                name
                field {
                  ... on ProjectV2FieldCommon {
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldNumberValue {
                number
                field {
                  ... on ProjectV2FieldCommon {
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldIterationValue {
                title
                startDate
                duration
                field {
                  ... on ProjectV2FieldCommon {
                    name
                  }
                }
              }
            }
          }
          content {
            ... on DraftIssue {
              id
              title
              body
            }
            ... on Issue {
              id
              number
              title
              repository {
                id
                name
              }
            }
            ... on PullRequest {
              id
              number
              title
              repository {
                id
                name
              }
            }
          }
        }
        pageInfo {
          hasNextPage
          endCursor
        }
      }
    }
  }
}
`

const projectItemCountQuery = `
query($id: ID!) {
  node(id: $id) {
    ... on ProjectV2 {
      items(first: 1) {
        totalCount
      }
    }
  }
}
`

const issueOrPullRequestQuery = `
query($owner: String!, $repository: String!, $number: Int!) {
  repository(owner: $owner, name: $repository) {
    issueOrPullRequest(number: $number) {
      __typename
      ... on Issue {
        id
        number
        title
      }
      ... on PullRequest {
        id
        number
        title
      }
    }
  }
}
`

const createProjectMutation = `
mutation($title: String!, $ownerId: ID!) {
  createProjectV2(input: {
    title: $title
    ownerId: $ownerId
  }) {
    projectV2 {
      id
      title
    }
  }
}
`

const updateProjectMutation = `
mutation($id: ID!, $title: String!, $closed: Boolean, $public: Boolean, $readme: String, $shortDescription: String) {
  updateProjectV2(input: {
    projectId: $id
    title: $title
    closed: $closed
    public: $public
    readme: $readme
    shortDescription: $shortDescription
  }) {
    projectV2 {
      id
      title
    }
  }
}
`

const createFieldMutation = `
mutation($projectId: ID!, $dataType: ProjectV2CustomFieldType!, $name: String!) {
  createProjectV2Field(input: {
    projectId: $projectId
    dataType: $dataType
    name: $name
  }) {
    clientMutationId
  }
}
`

const createSingleSelectFieldMutation = `
mutation($projectId: ID!, $name: String!, $options: [ProjectV2SingleSelectFieldOptionInput!]!) {
  createProjectV2Field(input: {
    projectId: $projectId
    dataType: SINGLE_SELECT
    name: $name
    singleSelectOptions: $options
  }) {
    clientMutationId
  }
}
`

const addItemMutation = `
mutation($projectId: ID!, $contentId: ID!) {
  addProjectV2ItemById(input: {
    projectId: $projectId
    contentId: $contentId
  }) {
    item {
      id
    }
  }
}
`

const addDraftIssueMutation = `
mutation($projectId: ID!, $title: String!, $body: String) {
  addProjectV2DraftIssue(input: {
    projectId: $projectId
    title: $title
    body: $body
  }) {
    projectItem {
      id
    }
  }
}
`

const updateItemFieldValueMutation = `
mutation($projectId: ID!, $itemId: ID!, $fieldId: ID!, $value: ProjectV2FieldValue!) {
  updateProjectV2ItemFieldValue(input: {
    projectId: $projectId
    itemId: $itemId
    fieldId: $fieldId
    value: $value
  }) {
    projectV2Item {
      id
    }
  }
}
`

package engine

import "fmt"

// The prompt templates are a fixed contract with the model: the checklist
// prompt names the exact JSON shape Decode expects, and the policy prompt
// pins the SPT statement grammar. Wording changes here must be mirrored in
// the checklist schema.

// checklistPrompt asks the model to convert a natural-language requirement
// into the structured checklist.
func checklistPrompt(requirement string) string {
	return fmt.Sprintf(`You are an expert in AWS IAM policy requirements analysis. Convert the following natural language requirement into a structured policy requirements checklist.

The checklist must be in the exact JSON format specified below. Analyze the requirement carefully and identify:
1. Whether all required elements are specified
2. Any ambiguities that could lead to multiple interpretations
3. Missing information that prevents unique policy generation

Natural Language Requirement:
"%s"

Output Format:
{
  "checklistMetadata": {
    "version": "1.0",
    "status": "INCOMPLETE|AMBIGUOUS|COMPLETE",
    "totalRequirements": <number>,
    "resolvedRequirements": <number>,
    "ambiguityLevel": "HIGH|MEDIUM|LOW|NONE",
    "validationErrors": [],
    "validationWarnings": []
  },
  "policyIntent": {
    "originalNL": "<original text>",
    "parsedIntent": "<summary>",
    "scope": "SINGLE_RULE|MULTI_RULE|POLICY_SET"
  },
  "requirements": [
    {
      "ruleId": "RULE_001",
      "status": "RESOLVED|AMBIGUOUS|INCOMPLETE",
      "effect": {
        "value": "ALLOW|DENY|UNSPECIFIED",
        "confidence": "EXPLICIT|INFERRED|MISSING",
        "nlSource": "<text from NL>"
      },
      "principal": {
        "type": "SPECIFIC_ARN|ROLE|GROUP|ATTACHED_IDENTITY|UNSPECIFIED",
        "value": "<value or UNSPECIFIED>",
        "confidence": "EXPLICIT|INFERRED|AMBIGUOUS|MISSING",
        "ambiguityReason": "<reason if ambiguous>",
        "resolutionRequired": ["<suggestions>"],
        "nlSource": "<text from NL>"
      },
      "actions": {
        "service": "<service>|UNSPECIFIED",
        "operations": ["<operations>"],
        "pattern": "EXPLICIT_LIST|WILDCARD|PREFIX_PATTERN|UNSPECIFIED",
        "confidence": "EXPLICIT|INFERRED|AMBIGUOUS|MISSING",
        "ambiguityReason": "<reason if ambiguous>",
        "nlSource": "<text from NL>"
      },
      "resources": {
        "type": "SPECIFIC_ARN|PATTERN|WILDCARD|UNSPECIFIED",
        "values": ["<values>"],
        "variables": [],
        "confidence": "EXPLICIT|INFERRED|AMBIGUOUS|MISSING",
        "ambiguityReason": "<reason if ambiguous>",
        "resolutionRequired": ["<suggestions>"],
        "nlSource": "<text from NL>"
      },
      "conditions": {
        "present": true|false,
        "expressions": [],
        "nlSource": "<text from NL>"
      }
    }
  ],
  "resolutionGuidance": {
    "missingRequired": [],
    "ambiguousElements": [],
    "potentialPolicies": <number>,
    "reason": "<explanation>"
  }
}

Be extremely careful to identify ALL ambiguities. If status is "COMPLETE", there should be exactly ONE possible policy interpretation.

Output only valid JSON.`, requirement)
}

// policyPrompt asks the model to synthesize SPT statements from a checklist
// rendered as canonical JSON.
func policyPrompt(checklistJSON string) string {
	return fmt.Sprintf(`You are an expert in AWS IAM policy generation using SimplePolicyTalk (SPT) DSL.
Generate an SPT policy based on the following requirements checklist.

CRITICAL INSTRUCTIONS:
1. You MUST generate a policy that EXACTLY matches the requirements in the checklist
2. If the checklist status is "COMPLETE", generate the unique policy that satisfies all requirements
3. If the checklist has ambiguities, make the SAME interpretation choices consistently
4. Use only the information provided in the checklist - do not add or infer additional requirements

Requirements Checklist:
%s

SPT Syntax Reminder:
- Format: EFFECT Principal "<principal>" Action "<action>" On "<resource>" [When "<condition>"];
- Effects: ALLOW | DENY
- Principal examples: "principal_id:ATTACHED_IDENTITY", "aws_principal_arn:arn:aws:iam::123:role/Name"
- Action examples: "service:s3 action:GetObject", "service:ec2 actions:[\"StartInstances\", \"StopInstances\"]"
- Resource examples: "resource_pattern:*", "resource_arn:arn:aws:s3:::bucket/*"

Generate ONLY the SPT policy statement(s). Each statement must end with a semicolon.
Output format: Just the SPT statement(s), no explanations or JSON.`, checklistJSON)
}

// buildRetryText folds analyzer feedback back into the requirement text.
// The loop's memory between attempts is carried entirely in this evolving
// natural-language text, not in structured state, so the exact wording
// lives here and nowhere else.
func buildRetryText(current, feedback string) string {
	return fmt.Sprintf(`Original requirement: %s

Please provide additional information to address the following issues:
%s

Please provide a complete and unambiguous requirement that addresses these points.`, current, feedback)
}
